package lockout

import (
	"context"
	"time"

	"github.com/innovatepam/ideatracker/internal/server/models"
	"github.com/innovatepam/ideatracker/internal/server/repositories/attempts"
)

// Ledger appends attempt records and answers the windowed failure count.
// It never touches lock state.
type Ledger struct {
	repo   attempts.Repository
	window time.Duration
	now    func() time.Time
}

// NewLedger binds a ledger to repo. A nil now uses time.Now.
func NewLedger(repo attempts.Repository, window time.Duration, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{repo: repo, window: window, now: now}
}

func (l *Ledger) RecordSuccess(ctx context.Context, email, origin string) error {
	_, err := l.repo.Create(ctx, &models.AttemptRecord{
		Email:       email,
		AttemptedAt: l.now(),
		Success:     true,
		Origin:      origin,
	})
	return err
}

// RecordRejection appends a failure without counting. Used for attempts the
// policy does not judge: unknown emails and identities that are still locked.
func (l *Ledger) RecordRejection(ctx context.Context, email, origin string) error {
	_, err := l.repo.Create(ctx, &models.AttemptRecord{
		Email:       email,
		AttemptedAt: l.now(),
		Origin:      origin,
	})
	return err
}

// RecordFailure appends a failure and returns the number of failures for
// email with a timestamp after now minus the window, the new one included.
func (l *Ledger) RecordFailure(ctx context.Context, email, origin string) (int, error) {
	return l.RecordFailureAfter(ctx, email, origin, time.Time{})
}

// RecordFailureAfter is RecordFailure with the window start raised to floor
// when floor is later. Passing the end of a lapsed lock keeps failures made
// during that lock out of the count.
func (l *Ledger) RecordFailureAfter(ctx context.Context, email, origin string, floor time.Time) (int, error) {
	now := l.now()
	if _, err := l.repo.Create(ctx, &models.AttemptRecord{
		Email:       email,
		AttemptedAt: now,
		Origin:      origin,
	}); err != nil {
		return 0, err
	}

	// The count is strictly after since; an attempt at exactly floor counts.
	since := now.Add(-l.window)
	if f := floor.Add(-time.Nanosecond); f.After(since) {
		since = f
	}
	return l.repo.CountFailuresSince(ctx, email, since)
}

// Recent lists the newest records for email.
func (l *Ledger) Recent(ctx context.Context, email string, limit int) ([]models.AttemptRecord, error) {
	return l.repo.ListRecent(ctx, email, limit)
}
