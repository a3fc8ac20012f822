package models

import "time"

// LockState is the persisted lock of an Identity: either unlocked (zero value)
// or locked until a point in time.
//
// The Locked flag is never cleared by the clock. A lock whose Until has passed
// is treated as inactive by IsEffectivelyLocked, and the stale flag is reset
// on the next successful login via Unlock.
type LockState struct {
	Locked bool
	Until  *time.Time
}

// Lock returns the state locked until now+d. Applying it to an already locked
// state refreshes Until.
func (s LockState) Lock(now time.Time, d time.Duration) LockState {
	until := now.Add(d)
	return LockState{Locked: true, Until: &until}
}

// Unlock clears both the flag and the timestamp.
func (s LockState) Unlock() LockState {
	return LockState{}
}

// IsEffectivelyLocked reports whether the lock is active at now.
func (s LockState) IsEffectivelyLocked(now time.Time) bool {
	return s.Locked && s.Until != nil && now.Before(*s.Until)
}

// IsZero reports whether the state is fully unlocked, flag and timestamp alike.
func (s LockState) IsZero() bool {
	return !s.Locked && s.Until == nil
}
