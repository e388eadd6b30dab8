// Package services holds the application logic behind the HTTP handlers: the
// history store facade and the inference proxy. This file centralizes the
// error taxonomy returned by service methods.
//
// Translation into user-facing messages and HTTP status codes is performed at
// the handler layer with errors.Is / errors.As.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a request is malformed: a non-object
	// document, or a missing, blank or malformed history id.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates that the addressed history item does not exist.
	ErrNotFound = errors.New("history item not found")

	// ErrNotConfigured is returned by the inference proxy when no endpoint
	// URL was configured. No network call is attempted.
	ErrNotConfigured = errors.New("prediction endpoint not configured")

	// ErrStoreUnavailable wraps any failure reported by the history store.
	ErrStoreUnavailable = errors.New("history store unavailable")
)

// Specific invalid-input cases. Each matches ErrInvalidInput via errors.Is.
var (
	ErrMissingID = fmt.Errorf("%w: missing history id", ErrInvalidInput)
	ErrInvalidID = fmt.Errorf("%w: invalid history id", ErrInvalidInput)
	ErrNotObject = fmt.Errorf("%w: body must be a JSON object", ErrInvalidInput)
)

// UpstreamError reports a non-2xx answer from the inference endpoint.
// Details carries the parsed response body (JSON value or raw text).
type UpstreamError struct {
	Status  int
	Details any
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded with status %d", e.Status)
}

// storeErr tags err as a store failure while keeping the driver error
// reachable for logging.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
