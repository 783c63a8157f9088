package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("hbnb: not found")
	ErrUnauthorized = errors.New("hbnb: unauthorized")
	ErrForbidden    = errors.New("hbnb: forbidden")

	// ErrNotLoggedIn is returned before any network call when an action needs a session.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrMissingID means the detail page was opened without ?id=.
	ErrMissingID = errors.New("missing place id")
	// ErrUnexpectedShape is returned when a 2xx body does not match the agreed contract.
	ErrUnexpectedShape = errors.New("hbnb: unexpected response shape")
)

// APIError is a non-2xx answer from the backend. Message holds the
// server-provided "message" (or "error") field and may be empty.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("hbnb: status %d", e.Status)
	}
	return fmt.Sprintf("hbnb: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == 404
	case ErrUnauthorized:
		return e.Status == 401
	case ErrForbidden:
		return e.Status == 403
	}
	return false
}
