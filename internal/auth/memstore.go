package auth

import (
	"sync"

	"github.com/jonathan/cv-builder-cli/internal/types"
)

// MemStore is an in-memory Store used by tests and by callers that do not
// want a session to outlive the process.
type MemStore struct {
	mu      sync.Mutex
	session *types.Session
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Get returns the stored session, or nil if none is stored.
func (s *MemStore) Get() (*types.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, nil
	}
	copied := *s.session
	return &copied, nil
}

// Set replaces the stored session.
func (s *MemStore) Set(session *types.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session == nil {
		s.session = nil
		return nil
	}
	copied := *session
	s.session = &copied
	return nil
}

// Clear removes the session.
func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
