package shared

import "errors"

var (
	// ErrNotFound indicates a referenced resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a unique constraint was violated.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates malformed caller input.
	ErrValidation = errors.New("validation failed")
	// ErrInvariant indicates a state transition the domain forbids.
	ErrInvariant = errors.New("invariant violation")
	// ErrConcurrencyConflict indicates an optimistic update collided.
	// The caller should retry the whole operation, not just the failing step.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)
