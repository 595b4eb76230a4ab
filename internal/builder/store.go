// Package builder owns the client-side state of the CV editing workflow:
// the candidate's CV list, the selected document, and per-section draft
// copies with dirty tracking.
package builder

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/cv-builder-cli/internal/api"
	"github.com/jonathan/cv-builder-cli/internal/types"
)

// ErrNoCurrentCV indicates an operation that needs a current document was
// called with none selected and no primary to fall back to.
var ErrNoCurrentCV = fmt.Errorf("no current CV: create or select one first")

// Store holds the CV list, selection, and section drafts. The selected
// document defaults to the primary one when no explicit selection exists.
type Store struct {
	api *api.Client

	mu         sync.Mutex
	cvList     []types.CVDocument
	selectedID string
	generation uint64
	drafts     drafts
}

// NewStore creates a store backed by the given API client.
func NewStore(client *api.Client) *Store {
	return &Store{api: client}
}

// Generation returns the selection generation counter. It increments every
// time the current document changes identity, and async operations use it
// to discard responses that arrive after a switch.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// CVList returns a copy of the loaded CV documents.
func (s *Store) CVList() []types.CVDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.CVDocument, len(s.cvList))
	copy(out, s.cvList)
	return out
}

// Current returns the current document: the explicit selection if set,
// otherwise the primary. Returns nil when neither exists.
func (s *Store) Current() *types.CVDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

func (s *Store) currentLocked() *types.CVDocument {
	if s.selectedID != "" {
		for i := range s.cvList {
			if s.cvList[i].ID == s.selectedID {
				return &s.cvList[i]
			}
		}
	}
	for i := range s.cvList {
		if s.cvList[i].IsPrimary {
			return &s.cvList[i]
		}
	}
	return nil
}

// Refresh reloads the CV list from the backend. A selection pointing at a
// document that no longer exists is cleared. Drafts are reloaded only when
// the current document changes identity; otherwise unsaved edits survive
// the refetch.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	prevID := idOf(s.currentLocked())
	s.mu.Unlock()

	docs, err := s.api.ListCVs(ctx)
	if err != nil {
		return err
	}
	s.applyList(docs, prevID)
	return nil
}

// applyList installs a freshly fetched list and reloads drafts when the
// current document identity moved away from prevID.
func (s *Store) applyList(docs []types.CVDocument, prevID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cvList = docs
	if s.selectedID != "" && s.findLocked(s.selectedID) == nil {
		s.selectedID = ""
	}

	cur := s.currentLocked()
	if idOf(cur) != prevID {
		s.generation++
		s.drafts.loadFrom(cur)
	}
}

func idOf(doc *types.CVDocument) string {
	if doc == nil {
		return ""
	}
	return doc.ID
}

func (s *Store) findLocked(id string) *types.CVDocument {
	for i := range s.cvList {
		if s.cvList[i].ID == id {
			return &s.cvList[i]
		}
	}
	return nil
}

// Select makes the document with the given id current. Any unsaved draft
// edits are discarded and replaced with the new document's data; the names
// of the sections that were dirty are returned so callers can warn.
func (s *Store) Select(id string) ([]Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.findLocked(id)
	if doc == nil {
		return nil, fmt.Errorf("unknown CV id: %s", id)
	}

	cur := s.currentLocked()
	if cur != nil && cur.ID == id {
		s.selectedID = id
		return nil, nil
	}

	discarded := s.drafts.dirtySections()
	s.selectedID = id
	s.generation++
	s.drafts.loadFrom(doc)
	return discarded, nil
}

// CreateCV persists a new document, inserts it into the list, and selects
// it. An empty name is rejected before the request is issued.
func (s *Store) CreateCV(ctx context.Context, req api.CreateCVRequest) (*types.CVDocument, error) {
	doc, err := s.api.CreateCV(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cvList = append(s.cvList, *doc)
	s.selectedID = doc.ID
	s.generation++
	s.drafts.loadFrom(doc)
	return doc, nil
}

// UpdateCV persists a partial merge against the current document and then
// refreshes the list. In-memory state is untouched when the request fails.
func (s *Store) UpdateCV(ctx context.Context, req api.UpdateCVRequest) error {
	cur := s.Current()
	if cur == nil {
		return ErrNoCurrentCV
	}
	if _, err := s.api.UpdateCV(ctx, cur.ID, req); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// DeleteCV deletes a document. Deleting the selected document clears the
// selection, which falls back to the primary.
func (s *Store) DeleteCV(ctx context.Context, id string) error {
	if err := s.api.DeleteCV(ctx, id); err != nil {
		return err
	}

	// Capture the pre-delete current so the draft reload check compares
	// against the document that was actually on screen.
	s.mu.Lock()
	prevID := idOf(s.currentLocked())
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.mu.Unlock()

	docs, err := s.api.ListCVs(ctx)
	if err != nil {
		return err
	}
	s.applyList(docs, prevID)
	return nil
}

// SetPrimaryCV marks a document primary and refetches the list. The flags
// are never flipped locally: the server is the source of truth for
// uniqueness, and refetching avoids a window where two documents both
// appear primary.
func (s *Store) SetPrimaryCV(ctx context.Context, id string) error {
	if err := s.api.SetPrimaryCV(ctx, id); err != nil {
		return err
	}
	return s.Refresh(ctx)
}
