package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/phrazzld/scry-deck/internal/config"
	"github.com/phrazzld/scry-deck/internal/platform/jsonfile"
	"github.com/phrazzld/scry-deck/internal/platform/postgres"
	"github.com/phrazzld/scry-deck/internal/platform/sqlite"
	"github.com/phrazzld/scry-deck/internal/store"
)

// Store drivers accepted in store.driver.
const (
	driverJSON     = "json"
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

// sqliteFileName is the database file created inside store.data_dir.
const sqliteFileName = "scry.db"

// snapshotStore is implemented by every backend.
type snapshotStore interface {
	store.CardStore
	store.SettingsStore
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore opens the backend selected by cfg. The returned closer releases
// any connection the backend holds.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (snapshotStore, io.Closer, error) {
	policy, err := store.ParseCorruptionPolicy(cfg.SettingsCorruption)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Driver {
	case driverJSON:
		s, err := jsonfile.New(cfg.DataDir, policy)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open json store: %w", err)
		}
		logger.Info("using json snapshot store", slog.String("data_dir", cfg.DataDir))
		return s, nopCloser{}, nil

	case driverSQLite:
		if err := ensureDir(cfg.DataDir); err != nil {
			return nil, nil, err
		}
		path := filepath.Join(cfg.DataDir, sqliteFileName)
		s, err := sqlite.Open(ctx, path, policy, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("using sqlite snapshot store", slog.String("path", path))
		return s, s, nil

	case driverPostgres:
		s, err := postgres.Open(ctx, cfg.DatabaseURL, policy, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		logger.Info("using postgres snapshot store")
		return s, s, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
