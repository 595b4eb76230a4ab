// Package catalog is a read-only, TTL-cached view of the CV template list.
// Styling fields are normalized at the boundary so downstream consumers
// always see one consistent shape.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/cv-builder-cli/internal/api"
	"github.com/jonathan/cv-builder-cli/internal/types"
)

// DefaultTTL is how long a fetched catalog stays fresh. Templates change
// rarely, so an hour is plenty.
const DefaultTTL = time.Hour

// Catalog caches the template list for a configurable TTL.
type Catalog struct {
	api *api.Client
	ttl time.Duration

	mu        sync.Mutex
	cached    []types.CVTemplate
	fetchedAt time.Time

	now func() time.Time
}

// NewCatalog creates a catalog with the given TTL; zero means DefaultTTL.
func NewCatalog(client *api.Client, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Catalog{
		api: client,
		ttl: ttl,
		now: time.Now,
	}
}

// Templates returns the template catalog, fetching it at most once per TTL.
func (c *Catalog) Templates(ctx context.Context) ([]types.CVTemplate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return copyTemplates(c.cached), nil
	}

	raw, err := c.api.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}

	templates := make([]types.CVTemplate, len(raw))
	for i := range raw {
		templates[i] = Normalize(&raw[i])
	}
	c.cached = templates
	c.fetchedAt = c.now()
	return copyTemplates(templates), nil
}

// ByID returns one template by id, from cache when fresh.
func (c *Catalog) ByID(ctx context.Context, id string) (*types.CVTemplate, error) {
	templates, err := c.Templates(ctx)
	if err != nil {
		return nil, err
	}
	for i := range templates {
		if templates[i].ID == id {
			return &templates[i], nil
		}
	}
	return nil, fmt.Errorf("unknown template: %s", id)
}

// Invalidate drops the cached catalog so the next call refetches.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
}

func copyTemplates(in []types.CVTemplate) []types.CVTemplate {
	out := make([]types.CVTemplate, len(in))
	copy(out, in)
	return out
}

// Normalize converts a backend template entry into the client's canonical
// shape. Newer entries carry a nested styling object; older ones flatten
// the same fields at the top level. Sections default to visible when the
// flag is absent.
func Normalize(raw *api.RawTemplate) types.CVTemplate {
	styling := types.TemplateStyling{
		FontFamily:  raw.FontFamily,
		FontSize:    raw.FontSize,
		AccentColor: raw.AccentColor,
		LineSpacing: raw.LineSpacing,
		MarginMM:    raw.MarginMM,
	}
	if len(raw.Styling) > 0 {
		var nested types.TemplateStyling
		if err := json.Unmarshal(raw.Styling, &nested); err == nil {
			styling = nested
		}
	}
	if styling.FontFamily == "" {
		styling.FontFamily = "Helvetica"
	}
	if styling.FontSize == 0 {
		styling.FontSize = 11
	}
	if styling.LineSpacing == 0 {
		styling.LineSpacing = 1.15
	}

	sections := make([]types.TemplateSection, len(raw.Sections))
	for i, s := range raw.Sections {
		visible := true
		if s.Visible != nil {
			visible = *s.Visible
		}
		sections[i] = types.TemplateSection{Name: s.Name, Visible: visible}
	}

	return types.CVTemplate{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		ATSFriendly: raw.ATSFriendly,
		Styling:     styling,
		Sections:    sections,
	}
}
