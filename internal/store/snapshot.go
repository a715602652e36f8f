package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/phrazzld/scry-deck/internal/domain"
)

// Entity names used in StoreError values and log attributes.
const (
	EntityCards    = "cards"
	EntitySettings = "settings"
)

// EncodeCards renders the card collection as pretty-printed JSON keyed by card ID.
func EncodeCards(cards map[string]domain.Card) ([]byte, error) {
	if cards == nil {
		cards = map[string]domain.Card{}
	}
	return json.MarshalIndent(cards, "", "  ")
}

// DecodeCards parses a snapshot produced by EncodeCards.
// Empty input decodes to an empty collection. Any other failure wraps ErrCorruptSnapshot.
func DecodeCards(data []byte) (map[string]domain.Card, error) {
	cards := map[string]domain.Card{}
	if len(bytes.TrimSpace(data)) == 0 {
		return cards, nil
	}

	if err := json.Unmarshal(data, &cards); err != nil {
		return map[string]domain.Card{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	for id, card := range cards {
		cards[id] = FillCardDefaults(id, card)
	}
	return cards, nil
}

// FillCardDefaults supplies values for fields that older snapshots did not record.
func FillCardDefaults(id string, card domain.Card) domain.Card {
	if card.ID == "" {
		card.ID = id
	}
	if card.EaseFactor == 0 {
		card.EaseFactor = domain.DefaultEaseFactor
	}
	if card.ExponentialFactor == 0 {
		card.ExponentialFactor = domain.DefaultExponentialFactor
	}
	return card
}

// EncodeSettings renders settings as pretty-printed JSON.
func EncodeSettings(settings domain.AppSettings) ([]byte, error) {
	return json.MarshalIndent(settings, "", "  ")
}

// DecodeSettings parses a settings snapshot. Fields missing from the document keep
// their default values. Empty input yields defaults. Malformed or invalid settings
// return defaults together with an error wrapping ErrCorruptSnapshot.
func DecodeSettings(data []byte) (domain.AppSettings, error) {
	settings := domain.DefaultSettings()
	if len(bytes.TrimSpace(data)) == 0 {
		return settings, nil
	}

	if err := json.Unmarshal(data, &settings); err != nil {
		return domain.DefaultSettings(), fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if err := settings.Validate(); err != nil {
		return domain.DefaultSettings(), fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return settings, nil
}
