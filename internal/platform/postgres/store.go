package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx driver
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/platform/migrate"
	"github.com/phrazzld/scry-deck/internal/store"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the embedded schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		// ALLOW-PANIC: the embedded directory is fixed at build time
		panic(err)
	}
	return sub
}

// Store implements store.CardStore and store.SettingsStore on PostgreSQL.
type Store struct {
	db     *sql.DB
	policy store.CorruptionPolicy
	logger *slog.Logger
}

// Compile-time checks
var (
	_ store.CardStore     = (*Store)(nil)
	_ store.SettingsStore = (*Store)(nil)
)

// Connect opens a connection pool for databaseURL and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Open connects to databaseURL, applies pending migrations and returns a Store
// that owns the connection pool.
func Open(ctx context.Context, databaseURL string, policy store.CorruptionPolicy, logger *slog.Logger) (*Store, error) {
	db, err := Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := migrate.Run(ctx, db, migrate.DialectPostgres, Migrations(), migrate.CommandUp); err != nil {
		_ = db.Close()
		return nil, err
	}

	return New(db, policy, logger), nil
}

// New wraps an already migrated connection pool.
func New(db *sql.DB, policy store.CorruptionPolicy, logger *slog.Logger) *Store {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		policy: policy,
		logger: logger.With(slog.String("component", "postgres_store")),
	}
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

const selectCardsQuery = `
	SELECT id, front, back, tag, created_at, last_reviewed, next_review,
	       interval_days, ease_factor, review_count, correct_count,
	       leitner_box, exponential_factor
	FROM cards`

const insertCardQuery = `
	INSERT INTO cards (
		id, front, back, tag, created_at, last_reviewed, next_review,
		interval_days, ease_factor, review_count, correct_count,
		leitner_box, exponential_factor
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

// LoadCards implements store.CardStore.
func (s *Store) LoadCards(ctx context.Context) (map[string]domain.Card, error) {
	cards, err := queryCards(ctx, s.db)
	if err != nil {
		return nil, store.NewStoreError(store.EntityCards, "load", "select cards", MapError(err))
	}
	s.logger.Debug("loaded cards snapshot", slog.Int("count", len(cards)))
	return cards, nil
}

func queryCards(ctx context.Context, db store.Querier) (map[string]domain.Card, error) {
	rows, err := db.QueryContext(ctx, selectCardsQuery)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cards := map[string]domain.Card{}
	for rows.Next() {
		var (
			c            domain.Card
			tag          sql.NullString
			lastReviewed sql.NullTime
		)
		if err := rows.Scan(
			&c.ID, &c.Front, &c.Back, &tag, &c.CreatedAt, &lastReviewed, &c.NextReview,
			&c.Interval, &c.EaseFactor, &c.ReviewCount, &c.CorrectCount,
			&c.LeitnerBox, &c.ExponentialFactor,
		); err != nil {
			return nil, err
		}
		if tag.Valid {
			c.Tag = &tag.String
		}
		if lastReviewed.Valid {
			t := lastReviewed.Time.UTC()
			c.LastReviewed = &t
		}
		c.CreatedAt = c.CreatedAt.UTC()
		c.NextReview = c.NextReview.UTC()
		cards[c.ID] = store.FillCardDefaults(c.ID, c)
	}
	return cards, rows.Err()
}

// SaveCards implements store.CardStore by replacing the table contents in one transaction.
func (s *Store) SaveCards(ctx context.Context, cards map[string]domain.Card) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
			return MapError(err)
		}

		stmt, err := tx.PrepareContext(ctx, insertCardQuery)
		if err != nil {
			return MapError(err)
		}
		defer func() { _ = stmt.Close() }()

		for _, c := range cards {
			var lastReviewed *time.Time
			if c.LastReviewed != nil {
				t := c.LastReviewed.UTC()
				lastReviewed = &t
			}
			if _, err := stmt.ExecContext(ctx,
				c.ID, c.Front, c.Back, c.Tag, c.CreatedAt.UTC(), lastReviewed, c.NextReview.UTC(),
				c.Interval, c.EaseFactor, c.ReviewCount, c.CorrectCount,
				c.LeitnerBox, c.ExponentialFactor,
			); err != nil {
				return fmt.Errorf("insert card %s: %w", c.ID, MapError(err))
			}
		}
		return nil
	})
	if err != nil {
		return store.NewStoreError(store.EntityCards, "save", "replace cards", err)
	}
	return nil
}

// LoadSettings implements store.SettingsStore.
func (s *Store) LoadSettings(ctx context.Context) (domain.AppSettings, error) {
	var document string
	err := s.db.QueryRowContext(ctx, `SELECT document::text FROM app_settings WHERE id = 1`).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.DefaultSettings(),
			store.NewStoreError(store.EntitySettings, "load", "select settings", MapError(err))
	}

	settings, err := store.DecodeSettings([]byte(document))
	if err != nil {
		if perr := s.policy.Handle(ctx, store.EntitySettings, err); perr != nil {
			return domain.DefaultSettings(), perr
		}
	}
	return settings, nil
}

// SaveSettings implements store.SettingsStore.
func (s *Store) SaveSettings(ctx context.Context, settings domain.AppSettings) error {
	document, err := store.EncodeSettings(settings)
	if err != nil {
		return store.NewStoreError(store.EntitySettings, "save", "encode settings", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_settings (id, document, updated_at) VALUES (1, $1::jsonb, NOW())
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`,
		string(document))
	if err != nil {
		return store.NewStoreError(store.EntitySettings, "save", "upsert settings", MapError(err))
	}
	return nil
}
