package client

import (
	"encoding/json"
	"os"
	"path/filepath"

	"cup-admin/internal/models"
)

// Session is the persisted login state: the token plus the user attributes
// the dashboard needs without another round trip.
type Session struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	UserID   uint        `json:"userId"`
	Role     models.Role `json:"role"`
}

func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != ""
}

// SessionStore keeps the session in a dotfile under the user's home.
type SessionStore struct {
	path string
}

func NewSessionStore() (*SessionStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &SessionStore{path: filepath.Join(home, ".cup-admin", "session.json")}, nil
}

func NewSessionStoreAt(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Load reads the stored session. A missing file means logged out, not an
// error.
func (s *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, err
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return &Session{}, nil
	}
	return &session, nil
}

func (s *SessionStore) Save(session *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear logs out by removing the dotfile.
func (s *SessionStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
