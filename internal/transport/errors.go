// Package transport provides the authenticated HTTP layer for the cv-builder backend.
// Every request carries a bearer token; 401 responses are handled centrally
// by the configured recovery strategy.
package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoSession indicates a request was attempted with no stored session.
var ErrNoSession = errors.New("no active session")

// ErrSessionExpired indicates the session could not be recovered: either the
// refresh call failed or the retried request was rejected again. The store
// has already been cleared when this is returned.
var ErrSessionExpired = errors.New("session expired")

// APIError represents a non-2xx, non-401 response from the backend.
type APIError struct {
	StatusCode int
	Status     string
	Detail     string
	URL        string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d for %s: %s", e.StatusCode, e.URL, e.Detail)
	}
	return fmt.Sprintf("api error %d for %s: %s", e.StatusCode, e.URL, e.Status)
}

// IsNotFound reports whether err is an APIError with status 404. Callers
// that treat a missing resource as a valid empty state check this instead
// of failing.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
