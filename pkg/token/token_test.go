package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restauranthub/inventory-system/internal/core/domain"
)

func TestManager_IssueAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour)

	raw, err := m.Issue("user-1", domain.RoleStaff)
	require.NoError(t, err)

	claims, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleStaff, claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
}

func TestManager_Issue_RejectsInvalidRole(t *testing.T) {
	m := NewManager("secret", time.Hour)

	_, err := m.Issue("user-1", domain.Role(0))
	assert.Error(t, err)

	_, err = m.Issue("", domain.RoleAdmin)
	assert.Error(t, err)
}

func TestManager_Parse_WrongSecret(t *testing.T) {
	raw, err := NewManager("secret", time.Hour).Issue("user-1", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = NewManager("other", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Parse_Expired(t *testing.T) {
	m := NewManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, err := m.Issue("user-1", domain.RoleAdmin)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Parse_Missing(t *testing.T) {
	_, err := NewManager("secret", time.Hour).Parse("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestManager_Parse_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		UserID: "user-1",
		Role:   domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewManager("secret", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Parse_UnknownRole(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  "user-1",
		"role": "owner",
		"iss":  issuer,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewManager("secret", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
