package vault

import "errors"

// Base errors for the vault core. Callers classify failures with
// errors.Is; operations wrap these with %w and a human-readable reason.
var (
	// ErrValidation covers malformed input, missing or dead parent
	// references and cyclic folder placement. Never retryable.
	ErrValidation = errors.New("validation failed")

	// ErrPermissionDenied is returned by the access evaluator when the
	// acting user holds no grant or share covering the target.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned for entities that do not exist or are
	// trashed. Distinct from ErrPermissionDenied: existence within a
	// tenant is disclosed.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned on uniqueness violations and on concurrent
	// structural mutations that lost an optimistic-lock race. Retryable.
	ErrConflict = errors.New("conflict")

	// ErrRestoreConflict is returned when a trash item's original parent
	// no longer exists or is itself still trashed. The caller must
	// resolve placement; not auto-retryable.
	ErrRestoreConflict = errors.New("restore conflict")
)
