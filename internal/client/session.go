package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"name-swiper/internal/models"
)

// SessionFile persists the local session between runs of the terminal
// client: the bearer token, the chosen identity, the last gender used on
// the add form and the per-user passed-deck order.
type SessionFile struct {
	path string
	data sessionData
}

type sessionData struct {
	ServerURL  string              `json:"server_url,omitempty"`
	Token      string              `json:"token,omitempty"`
	User       string              `json:"user,omitempty"`
	LastGender models.Gender       `json:"last_gender,omitempty"`
	NoOrder    map[string][]string `json:"no_order,omitempty"`
}

// OpenSession loads the session file from the user config directory,
// creating an empty session when none exists yet.
func OpenSession() (*SessionFile, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("client.OpenSession: %w", err)
	}
	return OpenSessionAt(filepath.Join(dir, "name-swiper", "session.json"))
}

// OpenSessionAt loads the session file from an explicit path.
func OpenSessionAt(path string) (*SessionFile, error) {
	s := &SessionFile{path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("client.OpenSessionAt: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("client.OpenSessionAt: parse %s: %w", path, err)
	}
	return s, nil
}

func (s *SessionFile) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

// Token returns the stored bearer token, empty when not logged in.
func (s *SessionFile) Token() string { return s.data.Token }

// User returns the stored identity, empty when not logged in.
func (s *SessionFile) User() string { return s.data.User }

// ServerURL returns the stored server base URL, empty when unset.
func (s *SessionFile) ServerURL() string { return s.data.ServerURL }

// SetIdentity stores the login result.
func (s *SessionFile) SetIdentity(serverURL, user, token string) error {
	s.data.ServerURL = serverURL
	s.data.User = user
	s.data.Token = token
	return s.save()
}

// LastGender returns the gender last used on the add-name form.
func (s *SessionFile) LastGender() models.Gender {
	if s.data.LastGender == "" {
		return models.GenderUnisex
	}
	return s.data.LastGender
}

// SetLastGender remembers the gender chosen on the add-name form.
func (s *SessionFile) SetLastGender(g models.Gender) error {
	s.data.LastGender = g
	return s.save()
}

// NoOrder implements deck.Session for the stored identity.
func (s *SessionFile) NoOrder() []string {
	return s.data.NoOrder[s.data.User]
}

// SetNoOrder implements deck.Session for the stored identity.
func (s *SessionFile) SetNoOrder(ids []string) error {
	if s.data.NoOrder == nil {
		s.data.NoOrder = make(map[string][]string)
	}
	s.data.NoOrder[s.data.User] = ids
	return s.save()
}
