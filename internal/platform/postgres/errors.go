package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scry-deck/internal/store"
)

// SQLSTATE codes the card and settings tables can raise.
const (
	uniqueViolationCode  = "23505"
	checkViolationCode   = "23514"
	notNullViolationCode = "23502"
	invalidJSONCode      = "22P02" // malformed text cast to jsonb
)

// pgErrorKinds maps a SQLSTATE to the store sentinel it represents.
var pgErrorKinds = map[string]error{
	uniqueViolationCode:  store.ErrInvalidEntity,
	checkViolationCode:   store.ErrInvalidEntity,
	notNullViolationCode: store.ErrInvalidEntity,
	invalidJSONCode:      store.ErrCorruptSnapshot,
}

// MapError translates driver errors into store sentinels. The original error
// stays in the chain so callers can still inspect the *pgconn.PgError.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	kind, ok := pgErrorKinds[pgErr.Code]
	if !ok {
		return err
	}

	detail := pgErr.ConstraintName
	if detail == "" {
		detail = pgErr.ColumnName
	}
	if detail == "" {
		return fmt.Errorf("%w: %w", kind, err)
	}
	return fmt.Errorf("%w (%s): %w", kind, detail, err)
}
