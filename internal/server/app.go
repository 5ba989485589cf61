// Package server wires the analysis gateway: it opens and migrates the
// database, builds the quota and billing services and serves the HTTP API
// until an OS signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/repsphere/internal/logging"
	"github.com/dmitrijs2005/repsphere/internal/server/config"
	"github.com/dmitrijs2005/repsphere/internal/server/httpapi"
	"github.com/dmitrijs2005/repsphere/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/repsphere/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.HTTPServer
}

// openDB is a seam for tests.
var openDB = repomanager.Open

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	return newApp(c, logger, db, rm), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) *App {
	us := services.NewUsageService(db, rm, c)
	bs := services.NewBillingService(db, rm, us, c)
	hs := httpapi.NewHTTPServer(httpapi.Options{
		Address:             c.ListenAddr,
		SecretKey:           c.SecretKey,
		AllowedOrigins:      c.AllowedOrigins,
		ShutdownTimeout:     c.ShutdownTimeout,
		StripeWebhookSecret: c.StripeWebhookSecret,
	}, logger, us, services.CannedAnalyzer{}, bs)

	return &App{config: c, logger: logger, db: db, http: hs}
}

// Run serves until ctx is done or the process receives SIGINT/SIGTERM/SIGQUIT.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")
	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(ctx, "closing database", "error", err)
		}
	}()

	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server stopped", "error", err)
		return err
	}

	app.logger.Info(ctx, "Stopped")
	return nil
}
