package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jonathan/cv-builder-cli/internal/transport"
)

// RawTemplate is a template catalog entry as the backend returns it.
// Styling fields arrive in two historical layouts: a nested styling object
// on newer entries, and flattened top-level fields on older ones. The
// catalog package normalizes both into types.CVTemplate.
type RawTemplate struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	ATSFriendly bool            `json:"ats_friendly"`
	Styling     json.RawMessage `json:"styling,omitempty"`

	// Flattened legacy styling fields.
	FontFamily  string  `json:"font_family,omitempty"`
	FontSize    int     `json:"font_size,omitempty"`
	AccentColor string  `json:"accent_color,omitempty"`
	LineSpacing float64 `json:"line_spacing,omitempty"`
	MarginMM    int     `json:"margin_mm,omitempty"`

	Sections []RawTemplateSection `json:"sections"`
}

// RawTemplateSection is one template section as returned by the backend.
type RawTemplateSection struct {
	Name    string `json:"name"`
	Visible *bool  `json:"visible,omitempty"`
}

// ListTemplates fetches the full template catalog.
func (c *Client) ListTemplates(ctx context.Context) ([]RawTemplate, error) {
	resp, err := c.transport.Do(ctx, http.MethodGet, "/api/cv-builder/templates/all", nil, transport.StrategyRefresh)
	if err != nil {
		return nil, err
	}
	var templates []RawTemplate
	if err := resp.DecodeJSON(&templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// GetTemplate fetches one template by id.
func (c *Client) GetTemplate(ctx context.Context, id string) (*RawTemplate, error) {
	resp, err := c.transport.Do(ctx, http.MethodGet, "/api/cv-builder/templates/"+id, nil, transport.StrategyRefresh)
	if err != nil {
		return nil, err
	}
	var template RawTemplate
	if err := resp.DecodeJSON(&template); err != nil {
		return nil, err
	}
	return &template, nil
}
