package enhance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-builder-cli/internal/api"
	"github.com/jonathan/cv-builder-cli/internal/auth"
	"github.com/jonathan/cv-builder-cli/internal/builder"
	"github.com/jonathan/cv-builder-cli/internal/transport"
	"github.com/jonathan/cv-builder-cli/internal/types"
)

// enhanceBackend serves a fixed two-document CV list plus the enhancement
// endpoints. Suggestions echo each bullet with an "Enhanced: " prefix.
type enhanceBackend struct {
	enhanceCalls atomic.Int32
	// beforeReply, when set, runs while an enhancement request is being
	// served, letting tests switch documents mid-flight.
	beforeReply func()
}

func (b *enhanceBackend) docs() []types.CVDocument {
	return []types.CVDocument{
		{
			ID: "cv-1", Name: "First", IsPrimary: true,
			Contact: types.ContactInfo{FullName: "Jane Doe"},
			Experience: []types.ExperienceItem{{
				ID: "exp-1", Company: "Acme", Role: "Engineer",
				Bullets: []string{"Led team A", "Built X"},
			}},
			Summary: "Engineer with experience.",
		},
		{ID: "cv-2", Name: "Second", Contact: types.ContactInfo{FullName: "Jane Doe"}},
	}
}

func (b *enhanceBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/cv-builder/" && r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(b.docs())
		case strings.HasSuffix(r.URL.Path, "/enhance-bullets"):
			b.enhanceCalls.Add(1)
			if b.beforeReply != nil {
				b.beforeReply()
			}
			var req struct {
				Bullets []string `json:"bullets"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			suggestions := make([]types.EnhancementSuggestion, len(req.Bullets))
			for i, bullet := range req.Bullets {
				suggestions[i] = types.EnhancementSuggestion{
					Original:    bullet,
					Enhanced:    "Enhanced: " + bullet,
					Explanation: "stronger phrasing",
				}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"suggestions": suggestions})
		case strings.HasSuffix(r.URL.Path, "/enhance-summary"):
			var req struct {
				Summary string `json:"summary"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			_ = json.NewEncoder(w).Encode(types.EnhancementSuggestion{
				Original: req.Summary,
				Enhanced: "Enhanced: " + req.Summary,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestEngine(t *testing.T) (*Engine, *builder.Store, *enhanceBackend) {
	t.Helper()
	backend := &enhanceBackend{}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	tokenStore := auth.NewMemStore()
	require.NoError(t, tokenStore.Set(&types.Session{AccessToken: "a1", RefreshToken: "r1"}))

	client := api.NewClient(transport.NewClient(server.URL, tokenStore, nil))
	store := builder.NewStore(client)
	require.NoError(t, store.Refresh(context.Background()))

	return NewEngine(client, store), store, backend
}

func TestEnhanceBullets_SuggestionLifecycle(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()

	bullets, err := store.Bullets(builder.SectionExperience, "exp-1")
	require.NoError(t, err)

	suggestions, err := engine.EnhanceBullets(ctx, builder.SectionExperience, "exp-1", bullets, "")
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "Led team A", suggestions[0].Original)
	assert.Equal(t, "Built X", suggestions[1].Original)
	assert.NotEmpty(t, suggestions[0].ID)

	// Accept the first: the draft bullet with that exact text changes,
	// and only the matching pending suggestion is removed.
	err = engine.Accept(builder.SectionExperience, "exp-1", "Led team A", "Led a team of 5 engineers")
	require.NoError(t, err)

	updated, err := store.Bullets(builder.SectionExperience, "exp-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Led a team of 5 engineers", "Built X"}, updated)

	pending := engine.Pending("exp-1")
	require.Len(t, pending, 1)
	assert.Equal(t, "Built X", pending[0].Original)

	assert.True(t, store.Dirty(builder.SectionExperience))
}

func TestReject_IsNonDestructive(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()

	bullets, err := store.Bullets(builder.SectionExperience, "exp-1")
	require.NoError(t, err)
	_, err = engine.EnhanceBullets(ctx, builder.SectionExperience, "exp-1", bullets, "")
	require.NoError(t, err)

	require.NoError(t, engine.Reject(builder.SectionExperience, "exp-1", "Led team A"))

	unchanged, err := store.Bullets(builder.SectionExperience, "exp-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Led team A", "Built X"}, unchanged)

	pending := engine.Pending("exp-1")
	require.Len(t, pending, 1)
	assert.Equal(t, "Built X", pending[0].Original)

	// Reject still marks the section dirty so the state is visibly pending.
	assert.True(t, store.Dirty(builder.SectionExperience))
}

func TestEnhanceBullets_EmptyBatchRejected(t *testing.T) {
	engine, _, backend := newTestEngine(t)

	_, err := engine.EnhanceBullets(context.Background(), builder.SectionExperience, "exp-1", []string{"", "   "}, "")
	require.Error(t, err)

	var vErr *api.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, int32(0), backend.enhanceCalls.Load(), "must not hit the network")
}

func TestEnhanceBullets_ReplacesPendingWholesale(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.EnhanceBullets(ctx, builder.SectionExperience, "exp-1", []string{"Led team A"}, "")
	require.NoError(t, err)
	require.Len(t, engine.Pending("exp-1"), 1)

	_, err = engine.EnhanceBullets(ctx, builder.SectionExperience, "exp-1", []string{"Built X"}, "")
	require.NoError(t, err)

	pending := engine.Pending("exp-1")
	require.Len(t, pending, 1)
	assert.Equal(t, "Built X", pending[0].Original, "last response wins")
}

func TestAccept_DuplicateBulletsAllReplaced(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, store.AddBullet(builder.SectionExperience, "exp-1", "Led team A"))

	_, err := engine.EnhanceBullets(ctx, builder.SectionExperience, "exp-1", []string{"Led team A", "Led team A"}, "")
	require.NoError(t, err)
	require.Len(t, engine.Pending("exp-1"), 2)

	require.NoError(t, engine.Accept(builder.SectionExperience, "exp-1", "Led team A", "Led the team"))

	bullets, err := store.Bullets(builder.SectionExperience, "exp-1")
	require.NoError(t, err)
	// Both identical bullets change together; only one pending entry goes.
	assert.Equal(t, []string{"Led the team", "Built X", "Led the team"}, bullets)
	assert.Len(t, engine.Pending("exp-1"), 1)
}

func TestAccept_NoMatchingBullet(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.EnhanceBullets(ctx, builder.SectionExperience, "exp-1", []string{"Led team A"}, "")
	require.NoError(t, err)

	err = engine.Accept(builder.SectionExperience, "exp-1", "no such bullet", "whatever")
	require.Error(t, err)
	// The pending suggestion is kept for a later, correct accept.
	assert.Len(t, engine.Pending("exp-1"), 1)
}

func TestEnhanceBullets_StaleResponseDropped(t *testing.T) {
	engine, store, backend := newTestEngine(t)
	ctx := context.Background()

	// Switch the current document while the enhancement request is in
	// flight; the late response must not land in cv-2's state.
	backend.beforeReply = func() {
		_, err := store.Select("cv-2")
		require.NoError(t, err)
	}

	_, err := engine.EnhanceBullets(ctx, builder.SectionExperience, "exp-1", []string{"Led team A"}, "")
	require.ErrorIs(t, err, ErrStaleResponse)
	assert.Empty(t, engine.Pending("exp-1"))
}

func TestPending_ClearedOnDocumentSwitch(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.EnhanceBullets(ctx, builder.SectionExperience, "exp-1", []string{"Led team A"}, "")
	require.NoError(t, err)
	require.Len(t, engine.Pending("exp-1"), 1)

	_, err = store.Select("cv-2")
	require.NoError(t, err)
	assert.Empty(t, engine.Pending("exp-1"), "pending suggestions do not survive a switch")
}

func TestEnhanceSummary_AcceptAndReject(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()

	suggestion, err := engine.EnhanceSummary(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Engineer with experience.", suggestion.Original)

	require.NoError(t, engine.AcceptSummary())
	assert.Equal(t, "Enhanced: Engineer with experience.", store.Summary())
	assert.True(t, store.Dirty(builder.SectionSummary))
	assert.Nil(t, engine.PendingSummary())

	// Rejecting with nothing pending is an error.
	require.Error(t, engine.RejectSummary())

	_, err = engine.EnhanceSummary(ctx, "")
	require.NoError(t, err)
	require.NoError(t, engine.RejectSummary())
	assert.Equal(t, "Enhanced: Engineer with experience.", store.Summary(), "reject keeps the draft text")
}
