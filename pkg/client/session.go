package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/restauranthub/inventory-system/internal/core/domain"
)

// Theme is the dashboard colour scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultTheme applies until the user toggles it.
const DefaultTheme = ThemeDark

// Session is the signed-in user plus UI preferences. A Session without a
// token is signed out but still remembers the theme.
type Session struct {
	UserID string      `json:"id,omitempty"`
	Name   string      `json:"name,omitempty"`
	Email  string      `json:"email,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
	Token  string      `json:"token,omitempty"`
	Theme  Theme       `json:"theme"`
}

// Authenticated reports whether the session can call protected endpoints.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

func (s *Session) IsAdmin() bool {
	return s.Authenticated() && s.Role == domain.RoleAdmin
}

func (s *Session) IsStaff() bool {
	return s.Authenticated() && s.Role == domain.RoleStaff
}

// ToggleTheme flips between dark and light.
func (s *Session) ToggleTheme() {
	if s.theme() == ThemeDark {
		s.Theme = ThemeLight
		return
	}
	s.Theme = ThemeDark
}

func (s *Session) theme() Theme {
	if s == nil || (s.Theme != ThemeDark && s.Theme != ThemeLight) {
		return DefaultTheme
	}
	return s.Theme
}

// SessionStore persists a Session as a JSON file.
type SessionStore struct {
	path string
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Load returns the persisted session. A missing or unreadable file yields a
// signed-out session with the default theme; a corrupt file is removed.
func (st *SessionStore) Load() (*Session, error) {
	raw, err := os.ReadFile(st.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Session{Theme: DefaultTheme}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		_ = os.Remove(st.path)
		return &Session{Theme: DefaultTheme}, nil
	}
	s.Theme = s.theme()
	return &s, nil
}

// Save writes s atomically.
func (st *SessionStore) Save(s *Session) error {
	if s == nil {
		return errors.New("save session: nil session")
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(st.path), 0o700); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := os.Rename(tmp, st.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear signs out: credentials are dropped, the theme is kept.
func (st *SessionStore) Clear(s *Session) (*Session, error) {
	out := &Session{Theme: s.theme()}
	if err := st.Save(out); err != nil {
		return nil, err
	}
	return out, nil
}
