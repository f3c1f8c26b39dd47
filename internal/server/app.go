// Package server wires the profiles service together: database, migrations,
// services and the gRPC front end, plus signal-driven graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/profiles/internal/dbx"
	"github.com/dmitrijs2005/profiles/internal/logging"
	"github.com/dmitrijs2005/profiles/internal/server/config"
	"github.com/dmitrijs2005/profiles/internal/server/credentials"
	"github.com/dmitrijs2005/profiles/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/profiles/internal/server/services"

	gs "github.com/dmitrijs2005/profiles/internal/server/grpc"
)

// Services is the wired business layer over one database pool.
type Services struct {
	DB       *sql.DB
	Identity *services.IdentityService
	Tokens   *services.TokenService
	Feed     *services.FeedService
}

// Close releases the database pool.
func (s *Services) Close() error {
	return s.DB.Close()
}

// openDB is a seam for tests.
var openDB = dbx.OpenPostgres

// NewServices connects to the database, applies migrations and builds the
// services. The admin CLI uses it too.
func NewServices(ctx context.Context, c *config.Config, logger logging.Logger) (*Services, error) {
	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return newServices(ctx, db, repomanager.NewPostgresRepositoryManager(), c, logger)
}

func newServices(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, c *config.Config, logger logging.Logger) (*Services, error) {
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	hasher := credentials.NewManager(c)

	return &Services{
		DB:       db,
		Identity: services.NewIdentityService(db, rm, hasher, c, logger),
		Tokens:   services.NewTokenService(db, rm, hasher, c, logger),
		Feed:     services.NewFeedService(db, rm, logger),
	}, nil
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	services *Services
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	svc, err := NewServices(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	return &App{config: c, logger: logger, services: svc}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewServer(app.config.EndpointAddrGRPC, app.config.ShutdownTimeout, app.logger,
		app.services.Identity, app.services.Tokens, app.services.Feed)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database pool.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.services.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
