// Package server wires the ideatracker authentication core together: it opens
// the identity store, applies migrations and runs the HTTP and gRPC endpoints
// until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/innovatepam/ideatracker/internal/logging"
	"github.com/innovatepam/ideatracker/internal/server/auth"
	"github.com/innovatepam/ideatracker/internal/server/authz"
	"github.com/innovatepam/ideatracker/internal/server/config"
	"github.com/innovatepam/ideatracker/internal/server/httpapi"
	"github.com/innovatepam/ideatracker/internal/server/lockout"
	"github.com/innovatepam/ideatracker/internal/server/repositories/repomanager"
	"github.com/innovatepam/ideatracker/internal/server/services"

	gs "github.com/innovatepam/ideatracker/internal/server/grpc"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	authService  *services.AuthService
	registration *services.RegistrationService
	authorizer   *authz.Authorizer
}

// NewApp validates c, connects to the database and runs migrations. The
// returned App owns the connection pool until Run returns.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(c.LogBackend, c.LogLevel, c.LogFormat, os.Stdout)
	if err != nil {
		return nil, err
	}

	policy := lockout.Policy{
		MaxAttempts:  c.MaxAttempts,
		Window:       c.Window(),
		LockDuration: c.LockDuration(),
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	hasher, err := auth.NewPasswordHasher(c.BcryptCost)
	if err != nil {
		return nil, err
	}

	z, err := authz.New(nil)
	if err != nil {
		return nil, fmt.Errorf("authz init error: %w", err)
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

	return &App{
		config:       c,
		logger:       logger,
		db:           db,
		authService:  services.NewAuthService(db, rm, tokens, hasher, policy, logger),
		registration: services.NewRegistrationService(db, rm, tokens, hasher, logger),
		authorizer:   z,
	}, nil
}

// Run serves both endpoints until SIGINT/SIGTERM or until either server
// fails. The database is closed before Run returns.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	defer app.close(context.Background())

	app.logger.Info(ctx, "Starting app...",
		"http", app.config.EndpointAddrHTTP,
		"grpc", app.config.EndpointAddrGRPC,
	)

	h := httpapi.NewHandler(app.authService, app.registration, app.authorizer, app.logger)
	router := httpapi.NewRouter(h, app.config.RequestTimeout)
	httpServer := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, router,
		app.config.HTTPReadTimeout, app.config.HTTPWriteTimeout)
	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService,
		gs.RegisterIdentityService)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Run(ctx) })
	g.Go(func() error { return grpcServer.Run(ctx) })

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
	} else {
		app.logger.Info(ctx, "server stopped")
	}
	return err
}

func (app *App) close(ctx context.Context) {
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "close db", "error", err)
	}
	if s, ok := app.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}
