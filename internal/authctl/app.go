// Package authctl implements the operator command line for the identity
// store: registering identities without the HTTP API, decoding tokens and
// inspecting the attempt ledger.
package authctl

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/innovatepam/ideatracker/internal/logging"
	"github.com/innovatepam/ideatracker/internal/server/auth"
	"github.com/innovatepam/ideatracker/internal/server/config"
	"github.com/innovatepam/ideatracker/internal/server/lockout"
	"github.com/innovatepam/ideatracker/internal/server/models"
	"github.com/innovatepam/ideatracker/internal/server/repositories/repomanager"
	"github.com/innovatepam/ideatracker/internal/server/services"
)

var ErrUsage = errors.New("usage error")

type Registrar interface {
	Register(ctx context.Context, email, password, role string) (*services.LoginResult, error)
}

type TokenVerifier interface {
	Verify(token string) (*auth.Principal, error)
}

type AttemptLister interface {
	RecentAttempts(ctx context.Context, email string, limit int) ([]models.AttemptRecord, error)
}

type RoleLister interface {
	ListRoles(ctx context.Context) ([]models.Role, error)
}

type App struct {
	registrar Registrar
	verifier  TokenVerifier
	attempts  AttemptLister
	roles     RoleLister
	reader    *bufio.Reader
	out       io.Writer
	closer    io.Closer
}

// NewApp connects to the database named by c and builds the same services
// the server runs with. Migrations are applied so a fresh database is usable.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(c.LogBackend, c.LogLevel, c.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}

	hasher, err := auth.NewPasswordHasher(c.BcryptCost)
	if err != nil {
		return nil, err
	}

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	tokens := auth.NewTokenManager([]byte(c.SecretKey), c.TokenLifetime)
	policy := lockout.Policy{MaxAttempts: c.MaxAttempts, Window: c.Window(), LockDuration: c.LockDuration()}
	as := services.NewAuthService(db, rm, tokens, hasher, policy, logger)

	return &App{
		registrar: services.NewRegistrationService(db, rm, tokens, hasher, logger),
		verifier:  as,
		attempts:  as,
		roles:     &storeRoles{db: db, rm: rm},
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		closer:    db,
	}, nil
}

func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

type storeRoles struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func (r *storeRoles) ListRoles(ctx context.Context) ([]models.Role, error) {
	return r.rm.Roles(r.db).List(ctx)
}
