package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restauranthub/inventory-system/internal/core/domain"
)

func TestSessionStore_RoundTripAndClear(t *testing.T) {
	store := NewSessionStore(filepath.Join(t.TempDir(), "hub", "session.json"))

	s, err := store.Load()
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
	assert.Equal(t, DefaultTheme, s.Theme)

	in := &Session{UserID: "u1", Name: "Ana", Email: "ana@example.com", Role: domain.RoleAdmin, Token: "tok", Theme: ThemeDark}
	in.ToggleTheme()
	require.NoError(t, store.Save(in))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, in, got)
	assert.True(t, got.IsAdmin())

	out, err := store.Clear(got)
	require.NoError(t, err)
	assert.False(t, out.Authenticated())
	assert.Equal(t, ThemeLight, out.Theme)

	reloaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, &Session{Theme: ThemeLight}, reloaded)
}

func TestSessionStore_CorruptFileIsDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := NewSessionStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, &Session{Theme: DefaultTheme}, s)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSession_ToggleTheme(t *testing.T) {
	s := &Session{}
	s.ToggleTheme()
	assert.Equal(t, ThemeLight, s.Theme, "unset theme counts as the dark default")
	s.ToggleTheme()
	assert.Equal(t, ThemeDark, s.Theme)
}
