// Package session persists the client-side login session: a JSON
// projection of the authenticated account written to a single fixed
// slot under the user config directory.
//
// The session is advisory. It never holds the password hash, and
// anything privileged re-verifies against the account store.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mentara/apiserver/types"
	"github.com/spf13/afero"
)

const sessionFileName = "session.json"

// Manager reads and writes the session slot. It is an explicit value
// handed to whoever needs it; there is no package-level instance.
type Manager struct {
	fs   afero.Fs
	path string
}

// NewManager constructs a Manager over the given filesystem and slot path.
func NewManager(fs afero.Fs, path string) *Manager {
	return &Manager{fs: fs, path: path}
}

// DefaultPath returns the per-user session slot location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mentara", sessionFileName), nil
}

// Save writes the projection to the slot, creating parent directories
// as needed.
func (m *Manager) Save(s types.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := m.fs.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return err
	}
	return afero.WriteFile(m.fs, m.path, data, 0o600)
}

// Load returns the stored session, or nil if the slot is absent or
// holds something unparseable. A malformed slot is treated as logged
// out, not as an error.
func (m *Manager) Load() (*types.Session, error) {
	data, err := afero.ReadFile(m.fs, m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var s types.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, nil
	}
	if s.ID == 0 || s.Username == "" {
		return nil, nil
	}
	return &s, nil
}

// Clear removes the slot. Clearing an already-empty slot is not an error.
func (m *Manager) Clear() error {
	err := m.fs.Remove(m.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// IsAuthenticated reports whether a loadable session exists.
func (m *Manager) IsAuthenticated() bool {
	s, err := m.Load()
	return err == nil && s != nil
}
