// Package lockout decides when repeated login failures lock an account and
// keeps the attempt ledger that feeds that decision.
package lockout

import (
	"errors"
	"time"
)

const (
	DefaultMaxAttempts  = 5
	DefaultWindow       = 15 * time.Minute
	DefaultLockDuration = 30 * time.Minute
)

var ErrInvalidPolicy = errors.New("lockout policy: attempts, window and lock duration must be positive")

// Policy locks an account once MaxAttempts failures fall inside Window. The
// lock lasts LockDuration.
type Policy struct {
	MaxAttempts  int
	Window       time.Duration
	LockDuration time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  DefaultMaxAttempts,
		Window:       DefaultWindow,
		LockDuration: DefaultLockDuration,
	}
}

func (p Policy) Validate() error {
	if p.MaxAttempts <= 0 || p.Window <= 0 || p.LockDuration <= 0 {
		return ErrInvalidPolicy
	}
	return nil
}

// ShouldLock reports whether failures counted in the window reach the
// threshold.
func (p Policy) ShouldLock(failures int) bool {
	return failures >= p.MaxAttempts
}
