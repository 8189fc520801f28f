package service

import "errors"

// Error kinds the boundary maps to transport-level failures. The engine
// never folds a failed store read into a default value; defaults apply
// only to absent configuration on an otherwise successful read.
var (
	// ErrStoreUnavailable wraps I/O failures reaching the event or
	// baseline store. Surfaced, never retried here; retry/backoff policy
	// belongs to the caller.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidInput marks malformed waste entries or baselines,
	// rejected before any derivation runs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks operations referencing a nonexistent baseline or
	// department.
	ErrNotFound = errors.New("not found")
)
