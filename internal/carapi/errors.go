package carapi

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized covers any 401 from the API, load and submit
	// alike. The caller redirects to the login entry point; the
	// request is never retried.
	ErrUnauthorized = errors.New("carapi: credential rejected")

	// ErrNotConfigured is returned by a client built without a base
	// URL. Network activity is disabled; callers log a warning and
	// leave the page in its loading state.
	ErrNotConfigured = errors.New("carapi: base URL not configured")
)

// StatusError is a non-2xx response other than 401. Message carries
// the server-provided message when the body had one.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// ShapeError is a successful response missing a field the edit view
// cannot do without.
type ShapeError struct {
	Field string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("response missing required field %s", e.Field)
}
