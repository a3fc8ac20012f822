// Package models defines server-side data models persisted in the database.
package models

import "time"

// Role is a named permission class such as "submitter" or "evaluator/admin".
type Role struct {
	ID   int64
	Name string
}

// Identity is a registered user. Lock fields change only through LockState
// transitions; see Identity.Lock.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	Lock         LockState
	CreatedAt    time.Time
}

// AttemptRecord is one login attempt as stored in the append-only ledger.
type AttemptRecord struct {
	ID          string
	Email       string
	AttemptedAt time.Time
	Success     bool
	// Origin is the caller's address as seen by the transport; best effort.
	Origin string
}
