package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy of the matchmaking core. Services wrap these sentinels so
// callers can branch with errors.Is and the transport can map them to codes.
var (
	// ErrValidation is bad input: moderation rejection, missing field, self-action.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means a referenced profile, report or notification is missing.
	ErrNotFound = errors.New("not found")
	// ErrStorage is a persistence failure. Never retried inside the core.
	ErrStorage = errors.New("storage failure")
	// ErrStateConflict means the entity is already finalized (e.g. report resolved).
	ErrStateConflict = errors.New("already finalized")
	// ErrQuotaExceeded means the daily like/super-like allowance is used up.
	ErrQuotaExceeded = errors.New("daily quota exceeded")
)

// Validation wraps ErrValidation with a human-readable reason.
func Validation(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

// NotFound wraps ErrNotFound with the missing entity description.
func NotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// Conflict wraps ErrStateConflict.
func Conflict(what string) error {
	return fmt.Errorf("%w: %s", ErrStateConflict, what)
}

// Storage wraps a persistence error so both ErrStorage and the cause match.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// Reason returns the message after the sentinel prefix, or err.Error().
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var withReason interface{ Reason() string }
	if errors.As(err, &withReason) {
		return withReason.Reason()
	}
	return err.Error()
}
