// Package attempts stores the append-only authentication attempt ledger.
package attempts

import (
	"context"
	"time"

	"github.com/innovatepam/ideatracker/internal/server/models"
)

// Repository appends and queries attempt records. Records are never updated
// or deleted.
type Repository interface {
	Create(ctx context.Context, attempt *models.AttemptRecord) (*models.AttemptRecord, error)

	// CountFailuresSince counts failed attempts for email with a timestamp
	// strictly after since.
	CountFailuresSince(ctx context.Context, email string, since time.Time) (int, error)

	// ListRecent returns up to limit records for email, newest first.
	ListRecent(ctx context.Context, email string, limit int) ([]models.AttemptRecord, error)
}
