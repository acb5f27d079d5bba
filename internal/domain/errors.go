package domain

import "errors"

// Error taxonomy shared across components. Callers classify failures with
// errors.Is; the HTTP layer maps them to status codes and wire error codes.
var (
	// ErrInvalidArgument marks a missing or malformed required field. It is
	// returned before any store mutation is attempted.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks an event id absent from every probed store.
	ErrNotFound = errors.New("event not found")

	// ErrStoreUnavailable marks a failed read or write against a backing
	// store. No automatic retry is performed.
	ErrStoreUnavailable = errors.New("store unavailable")
)
