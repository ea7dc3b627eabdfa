package source

import (
	"errors"
	"fmt"
)

// Sentinel failures shared by every source. The host matches on these with
// errors.Is to decide messaging and retry policy.
var (
	// ErrBlocked means the site answered with an anti-bot challenge
	// (HTTP 403 or 503) instead of real content. The operation is aborted
	// before any parsing; the host decides whether to retry after a
	// challenge-solving step.
	ErrBlocked = errors.New("blocked by anti-bot challenge")

	// ErrNotFound means the requested series or chapter does not exist in
	// the backing source.
	ErrNotFound = errors.New("not found")

	// ErrNoPages means a chapter page fetched successfully but yielded zero
	// usable images where at least one was expected. Distinct from end of
	// pagination, which is a valid empty result with no next cursor.
	ErrNoPages = errors.New("no pages found")
)

// Error wraps an operation failure at the source boundary.
type Error struct {
	SourceID string
	Op       string
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("source %s: %s: %v", e.SourceID, e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// OpError builds a boundary error for the given source operation.
func OpError(sourceID, op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{SourceID: sourceID, Op: op, Cause: cause}
}
