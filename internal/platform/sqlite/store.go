// Package sqlite implements the card and settings snapshot stores on a SQLite
// database file. Cards live one per row; the settings record is stored as a JSON
// document in a single-row table so corruption handling matches the file backend.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
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

// Store implements store.CardStore and store.SettingsStore on SQLite.
type Store struct {
	db     *sqlx.DB
	policy store.CorruptionPolicy
	logger *slog.Logger
}

// Compile-time checks
var (
	_ store.CardStore     = (*Store)(nil)
	_ store.SettingsStore = (*Store)(nil)
)

// Connect opens the database file at path without touching its schema.
func Connect(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// Open connects to the database file at path and applies pending migrations.
func Open(ctx context.Context, path string, policy store.CorruptionPolicy, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := Connect(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := migrate.Run(ctx, db.DB, migrate.DialectSQLite, Migrations(), migrate.CommandUp); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		policy: policy,
		logger: logger.With(slog.String("component", "sqlite_store")),
	}, nil
}

// DB exposes the underlying connection pool.
func (s *Store) DB() *sqlx.DB { return s.db }

// Close releases the database connection.
func (s *Store) Close() error { return s.db.Close() }

// cardRow mirrors a row of the cards table.
type cardRow struct {
	ID                string     `db:"id"`
	Front             string     `db:"front"`
	Back              string     `db:"back"`
	Tag               *string    `db:"tag"`
	CreatedAt         time.Time  `db:"created_at"`
	LastReviewed      *time.Time `db:"last_reviewed"`
	NextReview        time.Time  `db:"next_review"`
	IntervalDays      int        `db:"interval_days"`
	EaseFactor        float64    `db:"ease_factor"`
	ReviewCount       int        `db:"review_count"`
	CorrectCount      int        `db:"correct_count"`
	LeitnerBox        int        `db:"leitner_box"`
	ExponentialFactor float64    `db:"exponential_factor"`
}

func rowFromCard(c domain.Card) cardRow {
	row := cardRow{
		ID:                c.ID,
		Front:             c.Front,
		Back:              c.Back,
		Tag:               c.Tag,
		CreatedAt:         c.CreatedAt.UTC(),
		NextReview:        c.NextReview.UTC(),
		IntervalDays:      c.Interval,
		EaseFactor:        c.EaseFactor,
		ReviewCount:       c.ReviewCount,
		CorrectCount:      c.CorrectCount,
		LeitnerBox:        c.LeitnerBox,
		ExponentialFactor: c.ExponentialFactor,
	}
	if c.LastReviewed != nil {
		t := c.LastReviewed.UTC()
		row.LastReviewed = &t
	}
	return row
}

func (r cardRow) toDomain() domain.Card {
	card := domain.Card{
		ID:                r.ID,
		Front:             r.Front,
		Back:              r.Back,
		Tag:               r.Tag,
		CreatedAt:         r.CreatedAt.UTC(),
		NextReview:        r.NextReview.UTC(),
		Interval:          r.IntervalDays,
		EaseFactor:        r.EaseFactor,
		ReviewCount:       r.ReviewCount,
		CorrectCount:      r.CorrectCount,
		LeitnerBox:        r.LeitnerBox,
		ExponentialFactor: r.ExponentialFactor,
	}
	if r.LastReviewed != nil {
		t := r.LastReviewed.UTC()
		card.LastReviewed = &t
	}
	return store.FillCardDefaults(r.ID, card)
}

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
	) VALUES (
		:id, :front, :back, :tag, :created_at, :last_reviewed, :next_review,
		:interval_days, :ease_factor, :review_count, :correct_count,
		:leitner_box, :exponential_factor
	)`

// LoadCards implements store.CardStore.
func (s *Store) LoadCards(ctx context.Context) (map[string]domain.Card, error) {
	var rows []cardRow
	if err := s.db.SelectContext(ctx, &rows, selectCardsQuery); err != nil {
		return nil, store.NewStoreError(store.EntityCards, "load", "select cards", err)
	}

	cards := make(map[string]domain.Card, len(rows))
	for _, row := range rows {
		cards[row.ID] = row.toDomain()
	}

	s.logger.Debug("loaded cards snapshot", slog.Int("count", len(cards)))
	return cards, nil
}

// SaveCards implements store.CardStore by replacing every row in one transaction.
func (s *Store) SaveCards(ctx context.Context, cards map[string]domain.Card) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return store.NewStoreError(store.EntityCards, "save", "begin transaction", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("failed to roll back card snapshot",
					slog.String("error", rbErr.Error()))
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return store.NewStoreError(store.EntityCards, "save", "clear cards", err)
	}

	for _, card := range cards {
		if _, err = tx.NamedExecContext(ctx, insertCardQuery, rowFromCard(card)); err != nil {
			return store.NewStoreError(store.EntityCards, "save",
				fmt.Sprintf("insert card %s", card.ID), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return store.NewStoreError(store.EntityCards, "save", "commit",
			fmt.Errorf("%w: %w", store.ErrTransactionFailed, err))
	}
	return nil
}

// LoadSettings implements store.SettingsStore.
func (s *Store) LoadSettings(ctx context.Context) (domain.AppSettings, error) {
	var document string
	err := s.db.GetContext(ctx, &document, `SELECT document FROM app_settings WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.DefaultSettings(), store.NewStoreError(store.EntitySettings, "load", "select settings", err)
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
		INSERT INTO app_settings (id, document, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		string(document), time.Now().UTC())
	if err != nil {
		return store.NewStoreError(store.EntitySettings, "save", "upsert settings", err)
	}
	return nil
}
