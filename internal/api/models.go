package api

import (
	"time"

	"github.com/phrazzld/scry-deck/internal/domain"
)

// CardRequest defines the payload for creating or editing a card.
// A missing or blank tag leaves the card untagged.
type CardRequest struct {
	Front string  `json:"front" validate:"required"`
	Back  string  `json:"back"  validate:"required"`
	Tag   *string `json:"tag"`
}

// ReviewRequest defines the payload for recording a review.
// Difficulty uses the wire encoding 0=again, 1=hard, 2=good, 3=easy.
type ReviewRequest struct {
	Difficulty *int `json:"difficulty" validate:"required"`
}

// BulkTagRequest defines the payload for tagging several cards at once.
// A null or blank tag removes the tag.
type BulkTagRequest struct {
	CardIDs []string `json:"card_ids" validate:"required"`
	Tag     *string  `json:"tag"`
}

// BulkDeleteRequest defines the payload for deleting several cards at once.
type BulkDeleteRequest struct {
	CardIDs []string `json:"card_ids" validate:"required"`
}

// SettingsRequest defines the payload for replacing the settings.
// Range checks beyond presence are done by domain.AppSettings.Validate.
type SettingsRequest struct {
	Algorithm        domain.Algorithm `json:"algorithm"         validate:"required"`
	LeitnerIntervals []int            `json:"leitner_intervals" validate:"required"`
	ExponentialBase  float64          `json:"exponential_base"  validate:"required"`
}

// ToDomain converts the request into settings.
func (r SettingsRequest) ToDomain() domain.AppSettings {
	return domain.AppSettings{
		Algorithm:        r.Algorithm,
		LeitnerIntervals: r.LeitnerIntervals,
		ExponentialBase:  r.ExponentialBase,
	}
}

// CardResponse represents the response data for a card
type CardResponse struct {
	ID                string     `json:"id"`
	Front             string     `json:"front"`
	Back              string     `json:"back"`
	Tag               *string    `json:"tag"`
	CreatedAt         time.Time  `json:"created_at"`
	LastReviewed      *time.Time `json:"last_reviewed"`
	NextReview        time.Time  `json:"next_review"`
	Interval          int        `json:"interval"`
	EaseFactor        float64    `json:"ease_factor"`
	ReviewCount       int        `json:"review_count"`
	CorrectCount      int        `json:"correct_count"`
	LeitnerBox        int        `json:"leitner_box"`
	ExponentialFactor float64    `json:"exponential_factor"`
	Accuracy          float64    `json:"accuracy"`
}

// SettingsResponse represents the current settings.
type SettingsResponse struct {
	Algorithm        domain.Algorithm `json:"algorithm"`
	LeitnerIntervals []int            `json:"leitner_intervals"`
	ExponentialBase  float64          `json:"exponential_base"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

func cardToResponse(card *domain.Card) *CardResponse {
	return &CardResponse{
		ID:                card.ID,
		Front:             card.Front,
		Back:              card.Back,
		Tag:               card.Tag,
		CreatedAt:         card.CreatedAt,
		LastReviewed:      card.LastReviewed,
		NextReview:        card.NextReview,
		Interval:          card.Interval,
		EaseFactor:        card.EaseFactor,
		ReviewCount:       card.ReviewCount,
		CorrectCount:      card.CorrectCount,
		LeitnerBox:        card.LeitnerBox,
		ExponentialFactor: card.ExponentialFactor,
		Accuracy:          card.Accuracy(),
	}
}

func cardsToResponse(cards []domain.Card) []*CardResponse {
	out := make([]*CardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, cardToResponse(&cards[i]))
	}
	return out
}

func settingsToResponse(s domain.AppSettings) SettingsResponse {
	return SettingsResponse{
		Algorithm:        s.Algorithm,
		LeitnerIntervals: s.LeitnerIntervals,
		ExponentialBase:  s.ExponentialBase,
	}
}
