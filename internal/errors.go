package internal

import (
	"errors"
	"fmt"
)

// ErrPending is returned when a flow already has a request in flight.
// Overlapping submissions are ignored rather than queued or cancelled.
var ErrPending = errors.New("another request is already in flight")

// ErrNoActiveSession is returned when a study operation needs an
// active session and none exists.
var ErrNoActiveSession = errors.New("no active study session")

// ValidationError reports a required field left empty.
// It is raised before any network call is made.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s is required", e.Field)
}

// ServerError represents a non-success response from the backend.
// Message carries the server-provided error text when present.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error (status %d)", e.StatusCode)
}

// ConnectionError represents a transport failure where no response
// was obtained at all.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// UserMessage renders err as the inline text shown next to the
// triggering form. Server-provided messages win; transport failures
// collapse to a generic connection error.
func UserMessage(err error, fallback string) string {
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		if srvErr.Message != "" {
			return srvErr.Message
		}
		return fallback
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return "Please fill in all required fields"
	}
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return "Connection error. Please try again."
	}
	return fallback
}
