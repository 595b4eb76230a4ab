// Package api provides typed wrappers for the cv-builder backend REST surface.
package api

import "fmt"

// ValidationError indicates a request rejected client-side before hitting
// the network. The operation is aborted and nothing is retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}
