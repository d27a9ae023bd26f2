// Package server initializes and runs the application server: it opens
// the database, applies migrations and starts the HTTP API with graceful
// shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/myumkm/myumkm/internal/logging"
	"github.com/myumkm/myumkm/internal/server/config"
	"github.com/myumkm/myumkm/internal/server/httpserver"
	"github.com/myumkm/myumkm/internal/server/shared/db"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     db.RepositoryManager
	server *httpserver.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	handler := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(handler)

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("jwt secret key is not configured")
	}

	manager, err := db.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	srv := httpserver.NewServer(cfg, logger, manager)

	return &App{config: cfg, logger: logger, db: manager, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddr, "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "server error", "error", err.Error())
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}

	app.logger.Info(ctx, "app stopped")
}
