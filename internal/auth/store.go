// Package auth provides durable client-side storage for the authenticated session.
// The store is the single source of truth for tokens and the cached user
// record; every outgoing request reads it, and only login, refresh, and
// logout write it.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonathan/cv-builder-cli/internal/types"
)

// Store persists and retrieves the authenticated session.
type Store interface {
	// Get returns the stored session, or nil if none is stored.
	Get() (*types.Session, error)
	// Set replaces the stored session.
	Set(session *types.Session) error
	// Clear removes the session. Clearing is a single logical operation:
	// tokens and user record are removed together.
	Clear() error
}

// DefaultCredentialsFile is the session file path relative to the user
// config directory.
const DefaultCredentialsFile = "cvb/session.json"

// FileStore keeps the session in a mode-0600 JSON file. Writes go through
// a temp file and rename so a crashed write never leaves a half-written
// session behind.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed store at the given path. An empty
// path resolves to DefaultCredentialsFile under os.UserConfigDir.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config dir: %w", err)
		}
		path = filepath.Join(configDir, filepath.FromSlash(DefaultCredentialsFile))
	}
	return &FileStore{path: path}, nil
}

// Path returns the credentials file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the stored session, or nil if the file does not exist.
func (s *FileStore) Get() (*types.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session types.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", s.path, err)
	}
	if session.AccessToken == "" {
		return nil, nil
	}
	return &session, nil
}

// Set replaces the stored session atomically.
func (s *FileStore) Set(session *types.Session) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
