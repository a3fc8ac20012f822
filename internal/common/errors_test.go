package common

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestAccountLockedError_MatchesSentinel(t *testing.T) {
	until := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var err error = &AccountLockedError{Until: until}

	if !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("expected errors.Is(err, ErrAccountLocked)")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("locked error must not match invalid credentials")
	}
	if !strings.Contains(err.Error(), "2026-01-02T03:04:05Z") {
		t.Fatalf("message should disclose unlock time, got %q", err.Error())
	}

	wrapped := fmt.Errorf("login: %w", err)
	var le *AccountLockedError
	if !errors.As(wrapped, &le) || !le.Until.Equal(until) {
		t.Fatalf("errors.As should recover Until, got %+v", le)
	}
}

func TestStoreError_WrapsBoth(t *testing.T) {
	cause := errors.New("connection refused")
	err := StoreError("find user", cause)

	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to stay reachable, got %v", err)
	}
	if !strings.Contains(err.Error(), "find user") {
		t.Fatalf("expected op in message, got %q", err.Error())
	}
}
