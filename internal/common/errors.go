// Package common defines shared constants and sentinel errors used across the
// ideatracker server. Callers should use errors.Is / errors.As to match them.
package common

import (
	"errors"
	"fmt"
	"time"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Authentication outcomes. ErrInvalidCredentials covers both
	// an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account locked due to too many failed attempts")
	ErrInvalidToken       = errors.New("invalid token")

	// Collaborator I/O failure, never conflated with an authentication outcome.
	ErrStoreUnavailable = errors.New("credential store unavailable")

	// Registration errors.
	ErrEmailTaken  = errors.New("email already registered")
	ErrInvalidRole = errors.New("invalid role")
	ErrValidation  = errors.New("validation error")
)

// AccountLockedError carries the moment an effective lock ends.
// It matches ErrAccountLocked via errors.Is.
type AccountLockedError struct {
	Until time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("%s, try again after %s", ErrAccountLocked.Error(), e.Until.UTC().Format(time.RFC3339))
}

func (e *AccountLockedError) Is(target error) bool {
	return target == ErrAccountLocked
}

// StoreError wraps a collaborator failure so that it matches ErrStoreUnavailable
// while keeping the underlying cause reachable through errors.Unwrap.
func StoreError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
