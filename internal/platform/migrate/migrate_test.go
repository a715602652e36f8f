package migrate_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-deck/internal/platform/logger"
	"github.com/phrazzld/scry-deck/internal/platform/migrate"
	"github.com/phrazzld/scry-deck/internal/platform/sqlite"
)

func TestRunAgainstSQLite(t *testing.T) {
	ctx, logBuf := logger.CaptureContext(t)

	db, err := sqlite.Connect(ctx, filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	countTables := func(name string) int {
		var n int
		require.NoError(t, db.GetContext(ctx, &n,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name))
		return n
	}

	require.NoError(t, migrate.Run(ctx, db.DB, migrate.DialectSQLite, sqlite.Migrations(), migrate.CommandUp))
	assert.Equal(t, 1, countTables("cards"))
	assert.Equal(t, 1, countTables("app_settings"))
	assert.Equal(t, 1, countTables(migrate.TableName))

	// up is idempotent
	require.NoError(t, migrate.Run(ctx, db.DB, migrate.DialectSQLite, sqlite.Migrations(), migrate.CommandUp))
	require.NoError(t, migrate.Run(ctx, db.DB, migrate.DialectSQLite, sqlite.Migrations(), migrate.CommandStatus))
	require.NoError(t, migrate.Run(ctx, db.DB, migrate.DialectSQLite, sqlite.Migrations(), migrate.CommandVersion))

	require.NoError(t, migrate.Run(ctx, db.DB, migrate.DialectSQLite, sqlite.Migrations(), migrate.CommandDown))
	assert.Equal(t, 1, countTables("cards"))
	assert.Equal(t, 0, countTables("app_settings"))

	require.NoError(t, migrate.Run(ctx, db.DB, migrate.DialectSQLite, sqlite.Migrations(), migrate.CommandReset))
	assert.Equal(t, 0, countTables("cards"))

	assert.NotEmpty(t, logBuf.String(), "goose output is forwarded to the context logger")
}

func TestRunRejectsBadInput(t *testing.T) {
	ctx := context.Background()

	db, err := sqlite.Connect(ctx, filepath.Join(t.TempDir(), "bad.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = migrate.Run(ctx, db.DB, migrate.DialectSQLite, sqlite.Migrations(), "sideways")
	assert.ErrorIs(t, err, migrate.ErrUnknownCommand)

	err = migrate.Run(ctx, db.DB, "oracle", sqlite.Migrations(), migrate.CommandUp)
	assert.ErrorContains(t, err, "dialect")
}
