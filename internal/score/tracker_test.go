package score

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-builder-cli/internal/api"
	"github.com/jonathan/cv-builder-cli/internal/auth"
	"github.com/jonathan/cv-builder-cli/internal/builder"
	"github.com/jonathan/cv-builder-cli/internal/transport"
	"github.com/jonathan/cv-builder-cli/internal/types"
)

type scoreBackend struct {
	mu          sync.Mutex
	history     []types.CVScore
	beforeReply func()
}

func (b *scoreBackend) newScore(cvID string) types.CVScore {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := types.CVScore{
		ID:           "score-" + time.Now().Format("150405.000000"),
		CVID:         cvID,
		OverallScore: 82,
		Breakdown: types.ScoreBreakdown{
			KeywordOptimization: 78,
			FormatCompliance:    90,
			ContentQuality:      80,
			SectionCompleteness: 85,
			ActionVerbs:         75,
			Quantification:      70,
			Length:              95,
		},
		Recommendations: []string{"Quantify achievements", "Add more action verbs"},
		CreatedAt:       time.Now(),
	}
	b.history = append([]types.CVScore{s}, b.history...)
	return s
}

func (b *scoreBackend) latest() *types.CVScore {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.history) == 0 {
		return nil
	}
	s := b.history[0]
	return &s
}

func (b *scoreBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/cv-builder/" && r.Method == http.MethodGet:
			docs := []types.CVDocument{
				{ID: "cv-1", Name: "First", IsPrimary: true, LatestScore: b.latest()},
				{ID: "cv-2", Name: "Second"},
			}
			_ = json.NewEncoder(w).Encode(docs)
		case strings.HasSuffix(r.URL.Path, "/score") && r.Method == http.MethodPost:
			if b.beforeReply != nil {
				b.beforeReply()
			}
			cvID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/cv-builder/"), "/score")
			_ = json.NewEncoder(w).Encode(b.newScore(cvID))
		case strings.Contains(r.URL.Path, "/score/history"):
			b.mu.Lock()
			history := b.history
			b.mu.Unlock()
			_ = json.NewEncoder(w).Encode(history)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestTracker(t *testing.T) (*Tracker, *builder.Store, *scoreBackend) {
	t.Helper()
	backend := &scoreBackend{}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	tokenStore := auth.NewMemStore()
	require.NoError(t, tokenStore.Set(&types.Session{AccessToken: "a1", RefreshToken: "r1"}))

	client := api.NewClient(transport.NewClient(server.URL, tokenStore, nil))
	store := builder.NewStore(client)
	require.NoError(t, store.Refresh(context.Background()))

	return NewTracker(client, store), store, backend
}

func TestScoreCV(t *testing.T) {
	tracker, store, _ := newTestTracker(t)

	result, err := tracker.ScoreCV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cv-1", result.CVID)
	assert.GreaterOrEqual(t, result.OverallScore, 0)
	assert.LessOrEqual(t, result.OverallScore, 100)
	assert.Len(t, result.Breakdown.Categories(), 7)

	// The list refetch makes the document's latest_score reflect the new
	// result.
	cur := store.Current()
	require.NotNil(t, cur)
	require.NotNil(t, cur.LatestScore)
	assert.Equal(t, result.ID, cur.LatestScore.ID)

	latest := tracker.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, result.ID, latest.ID)
}

func TestScoreCV_NewRecordEveryCall(t *testing.T) {
	tracker, _, backend := newTestTracker(t)
	ctx := context.Background()

	first, err := tracker.ScoreCV(ctx)
	require.NoError(t, err)
	second, err := tracker.ScoreCV(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	backend.mu.Lock()
	assert.Len(t, backend.history, 2)
	backend.mu.Unlock()
}

func TestScoreCV_NoCurrentCV(t *testing.T) {
	backend := &scoreBackend{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]types.CVDocument{})
	}))
	t.Cleanup(server.Close)
	_ = backend

	tokenStore := auth.NewMemStore()
	require.NoError(t, tokenStore.Set(&types.Session{AccessToken: "a1"}))
	client := api.NewClient(transport.NewClient(server.URL, tokenStore, nil))
	store := builder.NewStore(client)
	require.NoError(t, store.Refresh(context.Background()))

	tracker := NewTracker(client, store)
	_, err := tracker.ScoreCV(context.Background())
	require.ErrorIs(t, err, builder.ErrNoCurrentCV)
}

func TestScoreCV_StaleResultDropped(t *testing.T) {
	tracker, store, backend := newTestTracker(t)

	backend.beforeReply = func() {
		_, err := store.Select("cv-2")
		require.NoError(t, err)
	}

	_, err := tracker.ScoreCV(context.Background())
	require.ErrorIs(t, err, ErrStaleScore)
	assert.Nil(t, tracker.Latest())
}

func TestHistory(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.ScoreCV(ctx)
	require.NoError(t, err)
	_, err = tracker.ScoreCV(ctx)
	require.NoError(t, err)

	scores, err := tracker.History(ctx, 5)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	// Newest first.
	assert.True(t, !scores[0].CreatedAt.Before(scores[1].CreatedAt))
}
