package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"taskmanager/app/models"
)

const (
	// AppName is the configuration directory name.
	AppName = "taskctl"

	// SessionFile holds the persisted session.
	SessionFile = "session.json"
)

// Session is the logged-in state: the token plus the cached profile.
type Session struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// SessionStore persists a Session in a file under Dir.
type SessionStore struct {
	Dir string
}

// NewSessionStore returns a store rooted at dir, or at DefaultConfigDir
// when dir is empty.
func NewSessionStore(dir string) *SessionStore {
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &SessionStore{Dir: dir}
}

// DefaultConfigDir returns XDG_CONFIG_HOME/taskctl or $HOME/.config/taskctl.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the session file location.
func (s *SessionStore) Path() string {
	return filepath.Join(s.Dir, SessionFile)
}

// Load returns the saved session, or nil if there is none.
func (s *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", SessionFile, err)
	}
	if sess.Token == "" {
		return nil, nil
	}
	return &sess, nil
}

// Save writes sess, readable only by the current user.
func (s *SessionStore) Save(sess *Session) error {
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path(), data, 0600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the saved session. A missing file is not an error.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
