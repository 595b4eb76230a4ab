// Package score triggers ATS scoring for the current CV and tracks results.
package score

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/cv-builder-cli/internal/api"
	"github.com/jonathan/cv-builder-cli/internal/builder"
	"github.com/jonathan/cv-builder-cli/internal/types"
)

// ErrStaleScore indicates a scoring response arrived after the current
// document changed and was discarded.
var ErrStaleScore = fmt.Errorf("current CV changed while the score request was in flight")

// Tracker issues scoring requests for the current document and keeps the
// latest result. Every call produces a new, distinct score record
// server-side; there is no client-side caching beyond the document's
// embedded latest_score.
type Tracker struct {
	api   *api.Client
	store *builder.Store

	mu     sync.Mutex
	latest *types.CVScore
}

// NewTracker creates a tracker bound to a builder store.
func NewTracker(client *api.Client, store *builder.Store) *Tracker {
	return &Tracker{api: client, store: store}
}

// ScoreCV scores the current document, refreshes the CV list so the
// document's latest_score reflects the new result, and returns the new
// score. A response for a document that is no longer current is dropped.
func (t *Tracker) ScoreCV(ctx context.Context) (*types.CVScore, error) {
	cur := t.store.Current()
	if cur == nil {
		return nil, builder.ErrNoCurrentCV
	}
	gen := t.store.Generation()

	result, err := t.api.ScoreCV(ctx, cur.ID)
	if err != nil {
		return nil, err
	}
	if t.store.Generation() != gen {
		return nil, ErrStaleScore
	}

	if err := t.store.Refresh(ctx); err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.latest = result
	t.mu.Unlock()
	return result, nil
}

// Latest returns the most recent score seen by this tracker, or nil.
func (t *Tracker) Latest() *types.CVScore {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.latest == nil {
		return nil
	}
	copied := *t.latest
	return &copied
}

// History returns past scores for the current document, newest first.
func (t *Tracker) History(ctx context.Context, limit int) ([]types.CVScore, error) {
	cur := t.store.Current()
	if cur == nil {
		return nil, builder.ErrNoCurrentCV
	}
	if limit <= 0 {
		limit = 10
	}
	return t.api.ScoreHistory(ctx, cur.ID, limit)
}
