// Package server initializes and runs the main application server.
// It wires the configured storage backend into the core services, starts the
// HTTP endpoint, and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avolkova/ecommute/internal/logging"
	"github.com/avolkova/ecommute/internal/server/config"
	"github.com/avolkova/ecommute/internal/server/creds"
	"github.com/avolkova/ecommute/internal/server/docstore"
	"github.com/avolkova/ecommute/internal/server/httpapi"
	"github.com/avolkova/ecommute/internal/server/leaderboard"
	"github.com/avolkova/ecommute/internal/server/ledger"
	"github.com/avolkova/ecommute/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	handler http.Handler
	db      *sql.DB
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	var (
		store docstore.Store
		db    *sql.DB
	)

	switch cfg.StorageBackend {
	case config.BackendMemory:
		store = docstore.NewMemoryStore()
	case config.BackendPostgres:
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := docstore.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("db migration error: %w", err)
		}
		store = docstore.NewPostgresStore(db)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.StorageBackend)
	}

	var hasher creds.Hasher = creds.BcryptHasher{}
	if cfg.PlaintextPasswords {
		hasher = creds.PlainHasher{}
	}

	emissionLedger := ledger.New(store)
	credStore := creds.New(store, hasher)
	board := leaderboard.New(emissionLedger)

	userService := services.NewUserService(credStore, cfg)
	emissionService := services.NewEmissionService(emissionLedger, board)

	handler := httpapi.NewRouter(logger, userService, emissionService)

	return &App{config: cfg, logger: logger, handler: handler, db: db}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr, "backend", app.config.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if app.db != nil {
		return app.db.Close()
	}
	return nil
}
