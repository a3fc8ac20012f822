// Package users declares the identity store contract used by the login and
// registration flows.
package users

import (
	"context"

	"github.com/innovatepam/ideatracker/internal/server/models"
)

// Repository looks up and persists identities. Emails are expected in their
// normalized form.
type Repository interface {
	// GetByEmail returns the identity with its role attached, or
	// common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)

	// SaveLockState writes the lock flag and lock-until of identity and
	// nothing else.
	SaveLockState(ctx context.Context, identity *models.Identity) error

	// Create inserts a new identity. A duplicate email yields
	// common.ErrEmailTaken.
	Create(ctx context.Context, identity *models.Identity) (*models.Identity, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
