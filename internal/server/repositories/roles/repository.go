// Package roles reads the role catalogue.
package roles

import (
	"context"

	"github.com/innovatepam/ideatracker/internal/server/models"
)

type Repository interface {
	// GetByName returns the role with the given name, or common.ErrorNotFound.
	GetByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
}
