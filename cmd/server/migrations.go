package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phrazzld/scry-deck/internal/config"
	"github.com/phrazzld/scry-deck/internal/platform/logger"
	"github.com/phrazzld/scry-deck/internal/platform/migrate"
	"github.com/phrazzld/scry-deck/internal/platform/postgres"
	"github.com/phrazzld/scry-deck/internal/platform/sqlite"
)

// errNoMigrations is returned when the configured store has no schema.
var errNoMigrations = errors.New("the json store has no schema migrations")

// runMigrations executes command against the configured SQL store.
func runMigrations(ctx context.Context, cfg *config.Config, command string) error {
	log := logger.FromContextOrDefault(ctx, nil)

	var (
		db      *sql.DB
		dialect string
		fsys    fs.FS
	)

	switch cfg.Store.Driver {
	case driverSQLite:
		if err := ensureDir(cfg.Store.DataDir); err != nil {
			return err
		}
		sqlxDB, err := sqlite.Connect(ctx, filepath.Join(cfg.Store.DataDir, sqliteFileName))
		if err != nil {
			return err
		}
		db, dialect, fsys = sqlxDB.DB, migrate.DialectSQLite, sqlite.Migrations()

	case driverPostgres:
		pgDB, err := postgres.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		db, dialect, fsys = pgDB, migrate.DialectPostgres, postgres.Migrations()

	default:
		return fmt.Errorf("%w (driver %q)", errNoMigrations, cfg.Store.Driver)
	}

	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database connection", slog.String("error", err.Error()))
		}
	}()

	log.Info("executing migrations",
		slog.String("command", command),
		slog.String("driver", cfg.Store.Driver))
	return migrate.Run(ctx, db, dialect, fsys, command)
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}
