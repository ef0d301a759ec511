// Package common contains shared sentinel errors and small helpers used
// across JournalKeeper components. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors (bad input shape, length or type).
	ErrorValidation = errors.New("validation error")

	// ErrorStateConflict signals an idempotent no-op attempt, such as
	// deleting an entry that is already deleted.
	ErrorStateConflict = errors.New("state conflict")

	// ErrorDecrypt signals that a ciphertext could not be read under the
	// given key: either the key is wrong or the stored data is corrupted.
	// It is always surfaced, never swallowed.
	ErrorDecrypt = errors.New("decryption failed")

	// ErrorLimitExceeded signals that a per-user quota has been reached.
	ErrorLimitExceeded = errors.New("limit exceeded")

	// ErrorLabelNotFound signals a reference to a label id that does not
	// exist in the caller-supplied label set.
	ErrorLabelNotFound = errors.New("label not found")

	// Auth errors (invalid or malformed session token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
