// Package migrate applies embedded goose migrations for the SQL snapshot stores.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/scry-deck/internal/platform/logger"
	"github.com/pressly/goose/v3"
)

// Supported migration commands.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandReset   = "reset"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// Dialects understood by goose.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// TableName is the goose version table used by every backend.
const TableName = "schema_migrations"

// ErrUnknownCommand is returned by Run for commands other than the ones above.
var ErrUnknownCommand = errors.New("unknown migration command")

// goose keeps its dialect, base FS and logger in package globals.
var gooseMu sync.Mutex

// Run executes command against db using the migrations found at the root of fsys.
func Run(ctx context.Context, db *sql.DB, dialect string, fsys fs.FS, command string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	log := logger.FromContextOrDefault(ctx, nil).With(
		slog.String("component", "migrations"),
		slog.String("dialect", dialect),
		slog.String("command", command),
	)

	goose.SetLogger(&slogGooseLogger{log: log})
	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)
	goose.SetTableName(TableName)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	start := time.Now()
	var err error
	switch command {
	case CommandUp:
		err = goose.UpContext(ctx, db, ".")
	case CommandDown:
		err = goose.DownContext(ctx, db, ".")
	case CommandReset:
		err = goose.ResetContext(ctx, db, ".")
	case CommandStatus:
		err = goose.StatusContext(ctx, db, ".")
	case CommandVersion:
		err = goose.VersionContext(ctx, db, ".")
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
	if err != nil {
		log.Error("migration failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Debug("migration finished", slog.Duration("duration", time.Since(start)))
	return nil
}

// slogGooseLogger forwards goose output to slog.
type slogGooseLogger struct {
	log *slog.Logger
}

// Printf implements the goose.Logger Printf method by forwarding messages at Info level.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding messages at Error level.
// It does not exit; goose returns the error to Run.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...))
}
