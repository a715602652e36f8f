package store

import (
	"context"

	"github.com/phrazzld/scry-deck/internal/domain"
)

// CardStore persists the whole card collection as one snapshot.
type CardStore interface {
	// LoadCards returns every persisted card keyed by ID.
	// A missing or undecodable snapshot yields an empty map and no error;
	// only failures to reach the backing resource are returned.
	LoadCards(ctx context.Context) (map[string]domain.Card, error)

	// SaveCards replaces the persisted snapshot with cards. It is a full
	// overwrite: cards absent from the map are removed from the store.
	SaveCards(ctx context.Context, cards map[string]domain.Card) error
}
