package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/scry-deck/internal/config"
	"github.com/phrazzld/scry-deck/internal/domain/srs"
	"github.com/phrazzld/scry-deck/internal/reminder"
	"github.com/phrazzld/scry-deck/internal/service"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	storeCloser io.Closer
	srsService  srs.Service
	cardService service.CardService
	reminder    *reminder.Scheduler
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	snapshots, closer, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	app.storeCloser = closer

	app.srsService, err = srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		MinEaseFactor: cfg.SRS.MinEaseFactor,
		MaxEaseFactor: cfg.SRS.MaxEaseFactor,
	}))
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create SRS service: %w", err)
	}

	app.cardService, err = service.NewCardService(ctx, snapshots, snapshots, app.srsService, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	if cfg.Reminder.Enabled {
		app.reminder, err = reminder.New(cfg.Reminder, app.cardService, nil, logger)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to create reminder scheduler: %w", err)
		}
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the background jobs and the HTTP server and blocks until ctx is
// cancelled or the server fails. Resources are released before it returns.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if app.reminder != nil {
		if err := app.reminder.Start(ctx); err != nil {
			return fmt.Errorf("failed to start reminder scheduler: %w", err)
		}
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.reminder != nil {
		app.reminder.Stop()
	}

	if app.storeCloser != nil {
		if err := app.storeCloser.Close(); err != nil {
			app.logger.Error("error closing store", slog.String("error", err.Error()))
		}
		app.storeCloser = nil
	}

	app.logger.Info("application shutdown completed")
}
