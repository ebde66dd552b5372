package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	r, err = ParseRole("staff")
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, r)

	_, err = ParseRole("Admin")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = ParseRole("")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestRole_JSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(struct {
		Role Role `json:"role"`
	}{RoleStaff})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"staff"}`, string(b))

	var decoded struct {
		Role Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"admin"}`), &decoded))
	assert.Equal(t, RoleAdmin, decoded.Role)

	assert.Error(t, json.Unmarshal([]byte(`{"role":"owner"}`), &decoded))
}

func TestRole_ZeroValueIsInvalid(t *testing.T) {
	var r Role
	assert.False(t, r.Valid())
	assert.Equal(t, "unknown", r.String())
	assert.False(t, r.CanCreateItems())
	assert.False(t, r.CanAdjustStock())
	assert.False(t, r.CanEditItems())

	_, err := json.Marshal(r)
	assert.Error(t, err)
}

func TestRole_Capabilities(t *testing.T) {
	assert.True(t, RoleAdmin.CanCreateItems())
	assert.True(t, RoleAdmin.CanEditItems())
	assert.True(t, RoleAdmin.CanDeleteItems())
	assert.True(t, RoleAdmin.CanAdjustStock())
	assert.True(t, RoleAdmin.CanViewMovements())

	assert.True(t, RoleStaff.CanCreateItems())
	assert.False(t, RoleStaff.CanEditItems())
	assert.False(t, RoleStaff.CanDeleteItems())
	assert.True(t, RoleStaff.CanAdjustStock())
	assert.False(t, RoleStaff.CanViewMovements())
}
