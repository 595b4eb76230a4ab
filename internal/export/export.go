// Package export turns a CV document plus template into a downloaded PDF.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/cv-builder-cli/internal/api"
	"github.com/jonathan/cv-builder-cli/internal/builder"
)

// Coordinator requests a rendered document from the backend and writes it
// to disk. Export never mutates the document, and the file is only written
// after the full binary has been received.
type Coordinator struct {
	api   *api.Client
	store *builder.Store
}

// NewCoordinator creates a coordinator bound to a builder store.
func NewCoordinator(client *api.Client, store *builder.Store) *Coordinator {
	return &Coordinator{api: client, store: store}
}

// ExportCV renders the current document with the given template into dir
// and returns the written file path. The filename stem is the candidate's
// name, falling back to the CV's display name.
func (c *Coordinator) ExportCV(ctx context.Context, templateID, dir string) (string, error) {
	if templateID == "" {
		return "", &api.ValidationError{Field: "template_id", Message: "template id is required"}
	}
	cur := c.store.Current()
	if cur == nil {
		return "", builder.ErrNoCurrentCV
	}

	data, err := c.api.ExportCV(ctx, cur.ID, templateID, "pdf")
	if err != nil {
		return "", err
	}

	stem := cur.Contact.FullName
	if strings.TrimSpace(stem) == "" {
		stem = cur.Name
	}
	filename := slugify(stem) + "_CV.pdf"
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// slugify reduces a display name to a safe filename stem.
func slugify(name string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "cv"
	}
	return sb.String()
}
