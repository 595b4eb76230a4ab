package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-builder-cli/internal/api"
	"github.com/jonathan/cv-builder-cli/internal/auth"
	"github.com/jonathan/cv-builder-cli/internal/transport"
	"github.com/jonathan/cv-builder-cli/internal/types"
)

// One nested-styling entry and one legacy flattened entry, as the backend
// actually mixes them.
const templatesJSON = `[
	{
		"id": "modern",
		"name": "Modern",
		"ats_friendly": true,
		"styling": {"font_family": "Inter", "font_size": 10, "accent_color": "#0b5fff", "line_spacing": 1.2, "margin_mm": 18},
		"sections": [{"name": "summary", "visible": true}, {"name": "projects", "visible": false}]
	},
	{
		"id": "classic",
		"name": "Classic",
		"font_family": "Georgia",
		"font_size": 12,
		"sections": [{"name": "summary"}]
	}
]`

func newTestCatalog(t *testing.T, ttl time.Duration) (*Catalog, *atomic.Int32) {
	t.Helper()
	var fetches atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/cv-builder/templates/all", r.URL.Path)
		fetches.Add(1)
		_, _ = w.Write([]byte(templatesJSON))
	}))
	t.Cleanup(server.Close)

	tokenStore := auth.NewMemStore()
	require.NoError(t, tokenStore.Set(&types.Session{AccessToken: "a1"}))
	client := api.NewClient(transport.NewClient(server.URL, tokenStore, nil))
	return NewCatalog(client, ttl), &fetches
}

func TestTemplates_Normalization(t *testing.T) {
	catalog, _ := newTestCatalog(t, 0)

	templates, err := catalog.Templates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 2)

	modern := templates[0]
	assert.Equal(t, "Inter", modern.Styling.FontFamily)
	assert.Equal(t, 10, modern.Styling.FontSize)
	assert.Equal(t, "#0b5fff", modern.Styling.AccentColor)
	assert.True(t, modern.ATSFriendly)
	require.Len(t, modern.Sections, 2)
	assert.False(t, modern.Sections[1].Visible)

	// The legacy flattened entry lands in the same shape.
	classic := templates[1]
	assert.Equal(t, "Georgia", classic.Styling.FontFamily)
	assert.Equal(t, 12, classic.Styling.FontSize)
	assert.Equal(t, 1.15, classic.Styling.LineSpacing, "missing spacing takes the default")
	require.Len(t, classic.Sections, 1)
	assert.True(t, classic.Sections[0].Visible, "visibility defaults to true")
}

func TestTemplates_CachedWithinTTL(t *testing.T) {
	catalog, fetches := newTestCatalog(t, time.Hour)
	ctx := context.Background()

	now := time.Now()
	catalog.now = func() time.Time { return now }

	_, err := catalog.Templates(ctx)
	require.NoError(t, err)
	_, err = catalog.Templates(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetches.Load(), "second call within TTL is served from cache")

	// Past the TTL the next call refetches.
	now = now.Add(time.Hour + time.Minute)
	_, err = catalog.Templates(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestByID(t *testing.T) {
	catalog, fetches := newTestCatalog(t, time.Hour)
	ctx := context.Background()

	template, err := catalog.ByID(ctx, "classic")
	require.NoError(t, err)
	assert.Equal(t, "Classic", template.Name)

	_, err = catalog.ByID(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, int32(1), fetches.Load())
}

func TestInvalidate(t *testing.T) {
	catalog, fetches := newTestCatalog(t, time.Hour)
	ctx := context.Background()

	_, err := catalog.Templates(ctx)
	require.NoError(t, err)
	catalog.Invalidate()
	_, err = catalog.Templates(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetches.Load())
}
