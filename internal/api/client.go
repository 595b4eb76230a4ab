package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cv-builder-cli/internal/transport"
	"github.com/jonathan/cv-builder-cli/internal/types"
)

// Client is the typed surface over the backend REST API. All authenticated
// calls go through the transport layer and inherit its 401 recovery.
type Client struct {
	transport *transport.Client
	validate  *validator.Validate
}

// NewClient wraps a transport client.
func NewClient(t *transport.Client) *Client {
	return &Client{
		transport: t,
		validate:  validator.New(),
	}
}

// Transport returns the underlying transport client.
func (c *Client) Transport() *transport.Client {
	return c.transport
}

// LoginRequest is the credentials payload for Login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates with the backend and persists the returned session
// in the token store. It is the only call besides refresh that runs
// without a bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*types.Session, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, &ValidationError{Field: "credentials", Message: err.Error()}
	}

	resp, err := c.transport.DoUnauthenticated(ctx, http.MethodPost, "/api/auth/login", req)
	if err != nil {
		return nil, err
	}

	var session types.Session
	if err := resp.DecodeJSON(&session); err != nil {
		return nil, err
	}
	if session.AccessToken == "" {
		return nil, fmt.Errorf("login response missing access token")
	}
	if err := c.transport.Store().Set(&session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return &session, nil
}

// Logout clears the stored session. The backend holds no server-side
// session state to invalidate.
func (c *Client) Logout() error {
	return c.transport.Store().Clear()
}

// CreateCVRequest is the payload for CreateCV.
type CreateCVRequest struct {
	Name             string `json:"name" validate:"required"`
	FromParsedCV     bool   `json:"from_parsed_cv"`
	SelectedTemplate string `json:"selected_template,omitempty"`
}

// CreateCV creates a new CV document, optionally seeded from the
// candidate's previously parsed profile.
func (c *Client) CreateCV(ctx context.Context, req CreateCVRequest) (*types.CVDocument, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "CV name must not be empty"}
	}
	if err := c.validate.Struct(req); err != nil {
		return nil, &ValidationError{Field: "create_cv", Message: err.Error()}
	}

	resp, err := c.transport.Do(ctx, http.MethodPost, "/api/cv-builder/", req, transport.StrategyRefresh)
	if err != nil {
		return nil, err
	}
	var doc types.CVDocument
	if err := resp.DecodeJSON(&doc); err != nil {
		return nil, err
	}
	doc.EnsureItemIDs()
	return &doc, nil
}

// ListCVs returns the authenticated candidate's CV documents.
func (c *Client) ListCVs(ctx context.Context) ([]types.CVDocument, error) {
	resp, err := c.transport.Do(ctx, http.MethodGet, "/api/cv-builder/", nil, transport.StrategyRefresh)
	if err != nil {
		return nil, err
	}
	var docs []types.CVDocument
	if err := resp.DecodeJSON(&docs); err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i].EnsureItemIDs()
	}
	return docs, nil
}

// GetPrimaryCV returns the candidate's primary CV, or nil if none exists.
// A missing primary is a valid empty state, not a failure.
func (c *Client) GetPrimaryCV(ctx context.Context) (*types.CVDocument, error) {
	resp, err := c.transport.Do(ctx, http.MethodGet, "/api/cv-builder/primary", nil, transport.StrategyRefresh)
	if err != nil {
		if transport.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var doc types.CVDocument
	if err := resp.DecodeJSON(&doc); err != nil {
		return nil, err
	}
	doc.EnsureItemIDs()
	return &doc, nil
}

// GetCV returns one CV document by id.
func (c *Client) GetCV(ctx context.Context, id string) (*types.CVDocument, error) {
	resp, err := c.transport.Do(ctx, http.MethodGet, "/api/cv-builder/"+id, nil, transport.StrategyRefresh)
	if err != nil {
		return nil, err
	}
	var doc types.CVDocument
	if err := resp.DecodeJSON(&doc); err != nil {
		return nil, err
	}
	doc.EnsureItemIDs()
	return &doc, nil
}

// UpdateCVRequest is a partial update: only non-nil field groups are sent,
// and the server merges them at field-group granularity (last write wins
// across concurrent editors).
type UpdateCVRequest struct {
	Name             *string                 `json:"name,omitempty"`
	Contact          *types.ContactInfo      `json:"contact_info,omitempty"`
	Summary          *string                 `json:"summary,omitempty"`
	Experience       *[]types.ExperienceItem `json:"experience,omitempty"`
	Education        *[]types.EducationItem  `json:"education,omitempty"`
	Skills           *string                 `json:"skills,omitempty"`
	Projects         *[]types.Project        `json:"projects,omitempty"`
	SelectedTemplate *string                 `json:"selected_template,omitempty"`
}

// UpdateCV applies a partial update to one CV document.
func (c *Client) UpdateCV(ctx context.Context, id string, req UpdateCVRequest) (*types.CVDocument, error) {
	resp, err := c.transport.Do(ctx, http.MethodPatch, "/api/cv-builder/"+id, req, transport.StrategyRefresh)
	if err != nil {
		return nil, err
	}
	var doc types.CVDocument
	if err := resp.DecodeJSON(&doc); err != nil {
		return nil, err
	}
	doc.EnsureItemIDs()
	return &doc, nil
}

// DeleteCV deletes one CV document. Irreversible.
func (c *Client) DeleteCV(ctx context.Context, id string) error {
	_, err := c.transport.Do(ctx, http.MethodDelete, "/api/cv-builder/"+id, nil, transport.StrategyRefresh)
	return err
}

// SetPrimaryCV marks one CV as the candidate's primary. The server is the
// source of truth for uniqueness; callers should refetch the list rather
// than flip flags locally.
func (c *Client) SetPrimaryCV(ctx context.Context, id string) error {
	_, err := c.transport.Do(ctx, http.MethodPost, "/api/cv-builder/"+id+"/set-primary", nil, transport.StrategyRefresh)
	return err
}

// EnhanceBulletsRequest asks the backend to rewrite a batch of bullets.
type EnhanceBulletsRequest struct {
	SectionType types.SectionType `json:"section_type"`
	SectionID   string            `json:"section_id"`
	Bullets     []string          `json:"bullets" validate:"required,min=1"`
	Context     string            `json:"context,omitempty"`
}

// EnhanceBullets requests AI rewrites for a section's bullets and returns
// one suggestion per bullet the backend chose to improve.
func (c *Client) EnhanceBullets(ctx context.Context, cvID string, req EnhanceBulletsRequest) ([]types.EnhancementSuggestion, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, &ValidationError{Field: "bullets", Message: err.Error()}
	}

	resp, err := c.transport.Do(ctx, http.MethodPost, "/api/cv-builder/"+cvID+"/enhance-bullets", req, transport.StrategyRefresh)
	if err != nil {
		return nil, err
	}
	var out struct {
		Suggestions []types.EnhancementSuggestion `json:"suggestions"`
	}
	if err := resp.DecodeJSON(&out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// EnhanceSummary requests an AI rewrite of the CV's free-text summary.
func (c *Client) EnhanceSummary(ctx context.Context, cvID, summary, context_ string) (*types.EnhancementSuggestion, error) {
	if summary == "" {
		return nil, &ValidationError{Field: "summary", Message: "summary must not be empty"}
	}

	body := map[string]string{"summary": summary}
	if context_ != "" {
		body["context"] = context_
	}
	resp, err := c.transport.Do(ctx, http.MethodPost, "/api/cv-builder/"+cvID+"/enhance-summary", body, transport.StrategyRefresh)
	if err != nil {
		return nil, err
	}
	var suggestion types.EnhancementSuggestion
	if err := resp.DecodeJSON(&suggestion); err != nil {
		return nil, err
	}
	return &suggestion, nil
}

// ScoreCV requests a fresh ATS score for one CV. Every call produces a
// new, distinct score record server-side.
func (c *Client) ScoreCV(ctx context.Context, cvID string) (*types.CVScore, error) {
	resp, err := c.transport.Do(ctx, http.MethodPost, "/api/cv-builder/"+cvID+"/score", nil, transport.StrategyRefresh)
	if err != nil {
		return nil, err
	}
	var score types.CVScore
	if err := resp.DecodeJSON(&score); err != nil {
		return nil, err
	}
	return &score, nil
}

// ScoreHistory returns the newest-first score history for one CV.
func (c *Client) ScoreHistory(ctx context.Context, cvID string, limit int) ([]types.CVScore, error) {
	path := fmt.Sprintf("/api/cv-builder/%s/score/history?limit=%d", cvID, limit)
	resp, err := c.transport.Do(ctx, http.MethodGet, path, nil, transport.StrategyRefresh)
	if err != nil {
		return nil, err
	}
	var scores []types.CVScore
	if err := resp.DecodeJSON(&scores); err != nil {
		return nil, err
	}
	return scores, nil
}

// ExportCV renders one CV with the given template and returns the binary
// document. The body is fully read before returning, so callers can write
// the file in one step.
func (c *Client) ExportCV(ctx context.Context, cvID, templateID, format string) ([]byte, error) {
	body := map[string]string{"template_id": templateID}
	if format != "" {
		body["format"] = format
	}
	resp, err := c.transport.Do(ctx, http.MethodPost, "/api/cv-builder/"+cvID+"/export", body, transport.StrategyRefresh)
	if err != nil {
		return nil, err
	}
	if len(resp.Body) == 0 {
		return nil, fmt.Errorf("export returned an empty document")
	}
	return resp.Body, nil
}
