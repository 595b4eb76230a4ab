// Package enhance holds client-side state for AI enhancement suggestions
// and the accept/reject merge back into draft bullet text.
package enhance

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder-cli/internal/api"
	"github.com/jonathan/cv-builder-cli/internal/builder"
	"github.com/jonathan/cv-builder-cli/internal/types"
)

// ErrStaleResponse indicates an enhancement response arrived after the
// current document changed; the response was discarded instead of being
// written into the new document's state.
var ErrStaleResponse = fmt.Errorf("current CV changed while the request was in flight")

// Engine tracks pending suggestions per section item. Suggestions are
// ephemeral: they exist between an enhancement response and the user's
// accept or reject, and never survive a document switch.
type Engine struct {
	api   *api.Client
	store *builder.Store

	mu         sync.Mutex
	generation uint64
	pending    map[string][]types.EnhancementSuggestion
	summary    *types.EnhancementSuggestion
}

// NewEngine creates an engine bound to a builder store.
func NewEngine(client *api.Client, store *builder.Store) *Engine {
	return &Engine{
		api:     client,
		store:   store,
		pending: make(map[string][]types.EnhancementSuggestion),
	}
}

// ensureFreshLocked drops all pending suggestions when the store's
// selection generation has moved on. Pending entries are keyed by item ids
// of the previous document and must not leak into the new one.
func (e *Engine) ensureFreshLocked() {
	gen := e.store.Generation()
	if gen != e.generation {
		e.generation = gen
		e.pending = make(map[string][]types.EnhancementSuggestion)
		e.summary = nil
	}
}

// Pending returns a copy of the pending suggestions for one section item.
func (e *Engine) Pending(itemID string) []types.EnhancementSuggestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureFreshLocked()
	list := e.pending[itemID]
	out := make([]types.EnhancementSuggestion, len(list))
	copy(out, list)
	return out
}

// EnhanceBullets requests rewrites for a section item's bullets. Blank
// bullets are dropped before the request; an all-blank batch is rejected
// without hitting the network. On success the pending list for the item is
// replaced wholesale, so two racing requests for the same item resolve to
// whichever response lands last.
func (e *Engine) EnhanceBullets(ctx context.Context, section builder.Section, itemID string, bullets []string, context_ string) ([]types.EnhancementSuggestion, error) {
	trimmed := make([]string, 0, len(bullets))
	for _, b := range bullets {
		if strings.TrimSpace(b) != "" {
			trimmed = append(trimmed, b)
		}
	}
	if len(trimmed) == 0 {
		return nil, &api.ValidationError{Field: "bullets", Message: "no non-empty bullets to enhance"}
	}

	cur := e.store.Current()
	if cur == nil {
		return nil, builder.ErrNoCurrentCV
	}
	gen := e.store.Generation()

	suggestions, err := e.api.EnhanceBullets(ctx, cur.ID, api.EnhanceBulletsRequest{
		SectionType: types.SectionType(section),
		SectionID:   itemID,
		Bullets:     trimmed,
		Context:     context_,
	})
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureFreshLocked()
	if e.store.Generation() != gen {
		return nil, ErrStaleResponse
	}
	for i := range suggestions {
		suggestions[i].ID = uuid.NewString()
	}
	e.pending[itemID] = suggestions

	out := make([]types.EnhancementSuggestion, len(suggestions))
	copy(out, suggestions)
	return out, nil
}

// Accept merges one suggestion into the draft: every bullet in the item
// whose text equals original is replaced with enhanced, and the first
// pending suggestion matching original is removed. The section is marked
// dirty so the change is visibly pending a save.
func (e *Engine) Accept(section builder.Section, itemID, original, enhanced string) error {
	replaced, err := e.store.ReplaceBulletText(section, itemID, original, enhanced)
	if err != nil {
		return err
	}
	if replaced == 0 {
		return fmt.Errorf("no bullet matching suggestion text; it may have been edited")
	}

	e.mu.Lock()
	e.ensureFreshLocked()
	e.removePendingLocked(itemID, original)
	e.mu.Unlock()
	return nil
}

// Reject discards one pending suggestion without touching bullet text.
func (e *Engine) Reject(section builder.Section, itemID, original string) error {
	e.mu.Lock()
	e.ensureFreshLocked()
	found := e.removePendingLocked(itemID, original)
	e.mu.Unlock()

	if !found {
		return fmt.Errorf("no pending suggestion for that bullet")
	}
	e.store.MarkDirty(section)
	return nil
}

// removePendingLocked removes the first pending suggestion for itemID
// whose original text matches. Only the first match goes: with duplicate
// bullet texts each accept/reject consumes one suggestion.
func (e *Engine) removePendingLocked(itemID, original string) bool {
	list := e.pending[itemID]
	for i, s := range list {
		if s.Original == original {
			e.pending[itemID] = append(list[:i:i], list[i+1:]...)
			if len(e.pending[itemID]) == 0 {
				delete(e.pending, itemID)
			}
			return true
		}
	}
	return false
}

// EnhanceSummary requests a rewrite of the summary draft and stores it as
// the pending summary suggestion.
func (e *Engine) EnhanceSummary(ctx context.Context, context_ string) (*types.EnhancementSuggestion, error) {
	cur := e.store.Current()
	if cur == nil {
		return nil, builder.ErrNoCurrentCV
	}
	summary := e.store.Summary()
	if strings.TrimSpace(summary) == "" {
		return nil, &api.ValidationError{Field: "summary", Message: "summary is empty"}
	}
	gen := e.store.Generation()

	suggestion, err := e.api.EnhanceSummary(ctx, cur.ID, summary, context_)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureFreshLocked()
	if e.store.Generation() != gen {
		return nil, ErrStaleResponse
	}
	suggestion.ID = uuid.NewString()
	e.summary = suggestion
	return suggestion, nil
}

// PendingSummary returns the pending summary suggestion, or nil.
func (e *Engine) PendingSummary() *types.EnhancementSuggestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureFreshLocked()
	if e.summary == nil {
		return nil
	}
	copied := *e.summary
	return &copied
}

// AcceptSummary replaces the summary draft with the pending suggestion.
func (e *Engine) AcceptSummary() error {
	e.mu.Lock()
	e.ensureFreshLocked()
	suggestion := e.summary
	e.summary = nil
	e.mu.Unlock()

	if suggestion == nil {
		return fmt.Errorf("no pending summary suggestion")
	}
	e.store.SetSummary(suggestion.Enhanced)
	return nil
}

// RejectSummary discards the pending summary suggestion.
func (e *Engine) RejectSummary() error {
	e.mu.Lock()
	e.ensureFreshLocked()
	had := e.summary != nil
	e.summary = nil
	e.mu.Unlock()

	if !had {
		return fmt.Errorf("no pending summary suggestion")
	}
	e.store.MarkDirty(builder.SectionSummary)
	return nil
}
