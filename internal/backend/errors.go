package backend

import (
	"errors"
	"fmt"

	"github.com/awarehub/console/internal/normalize"
)

// ErrNotFound marks a 404 from the backend. Callers treat it as "the optional
// resource does not exist" (an article without a survey), not as a failure.
var ErrNotFound = errors.New("backend: not found")

// APIError is any non-2xx backend response other than 404. Message carries
// whatever the backend put in its `message` or `error` field, so handlers can
// surface the backend's own wording.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: status %d", e.Status)
	}
	return fmt.Sprintf("backend: status %d: %s", e.Status, e.Message)
}

func apiError(status int, payload any) *APIError {
	msg := ""
	if obj, ok := payload.(map[string]any); ok {
		msg = normalize.Text(obj, "message", "error")
	}
	return &APIError{Status: status, Message: msg}
}
