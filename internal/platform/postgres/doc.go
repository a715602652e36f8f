// Package postgres implements the card and settings snapshot stores on PostgreSQL
// through the pgx database/sql driver. Schema changes are embedded goose
// migrations applied by Open. A card snapshot save replaces the cards table
// inside one transaction, so readers see either the old or the new collection.
package postgres
