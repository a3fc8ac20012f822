package repomanager

import (
	"context"
	"database/sql"

	"github.com/innovatepam/ideatracker/internal/dbx"
	"github.com/innovatepam/ideatracker/internal/server/repositories/attempts"
	"github.com/innovatepam/ideatracker/internal/server/repositories/roles"
	"github.com/innovatepam/ideatracker/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same service
// code runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Attempts(db dbx.DBTX) attempts.Repository
	Roles(db dbx.DBTX) roles.Repository
}
