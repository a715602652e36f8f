package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scheduling defaults shared by every algorithm.
const (
	// DefaultEaseFactor is the ease factor assigned to a freshly created card.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the lowest ease factor a card may carry.
	MinEaseFactor = 1.3

	// MaxEaseFactor is the highest ease factor a card may carry.
	MaxEaseFactor = 5.0

	// DefaultExponentialFactor is the starting multiplier of the exponential scheduler.
	DefaultExponentialFactor = 1.0
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardFrontEmpty is returned when the question side of a card is blank.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardBackEmpty is returned when the answer side of a card is blank.
	ErrCardBackEmpty = errors.New("card back cannot be empty")

	// ErrInvalidInterval is returned when a card interval is negative.
	ErrInvalidInterval = errors.New("interval must be greater than or equal to 0")

	// ErrInvalidEaseFactor is returned when a card ease factor is out of bounds.
	ErrInvalidEaseFactor = errors.New("ease factor must be between 1.3 and 5.0")

	// ErrInvalidCounters is returned when review counters are negative or
	// the correct count exceeds the review count.
	ErrInvalidCounters = errors.New("invalid review counters")
)

// Card is a flashcard together with its review state. The scheduling fields
// are shared by all algorithms; LeitnerBox and ExponentialFactor are only
// advanced by their respective schedulers.
type Card struct {
	ID                string     `json:"id"`
	Front             string     `json:"front"`
	Back              string     `json:"back"`
	Tag               *string    `json:"tag"`
	CreatedAt         time.Time  `json:"created_at"`
	LastReviewed      *time.Time `json:"last_reviewed"`
	NextReview        time.Time  `json:"next_review"`
	Interval          int        `json:"interval"`    // days
	EaseFactor        float64    `json:"ease_factor"` // SM-2 ease factor
	ReviewCount       int        `json:"review_count"`
	CorrectCount      int        `json:"correct_count"`
	LeitnerBox        int        `json:"leitner_box"`
	ExponentialFactor float64    `json:"exponential_factor"`
}

// NewCard creates a new Card that is due immediately.
// It generates a new UUID for the card ID; created_at and next_review are both set to now.
// Returns an error if validation fails.
func NewCard(front, back string, tag *string, now time.Time) (*Card, error) {
	now = now.UTC()
	card := &Card{
		ID:                uuid.NewString(),
		Front:             front,
		Back:              back,
		Tag:               NormalizeTag(tag),
		CreatedAt:         now,
		NextReview:        now,
		Interval:          0,
		EaseFactor:        DefaultEaseFactor,
		LeitnerBox:        0,
		ExponentialFactor: DefaultExponentialFactor,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == "" {
		return ErrCardIDEmpty
	}

	if err := validateContent(c.Front, c.Back); err != nil {
		return err
	}

	if c.Interval < 0 {
		return ErrInvalidInterval
	}

	if c.EaseFactor < MinEaseFactor || c.EaseFactor > MaxEaseFactor {
		return ErrInvalidEaseFactor
	}

	if c.ReviewCount < 0 || c.CorrectCount < 0 || c.CorrectCount > c.ReviewCount {
		return ErrInvalidCounters
	}

	return nil
}

// validateContent checks the user-editable text of a card.
func validateContent(front, back string) error {
	if strings.TrimSpace(front) == "" {
		return ErrCardFrontEmpty
	}
	if strings.TrimSpace(back) == "" {
		return ErrCardBackEmpty
	}
	return nil
}

// UpdateContent replaces the editable fields of the card. Scheduling state is
// neither touched nor checked, so cards carrying out-of-range state from older
// snapshots stay editable. The card is left unchanged if the new content is invalid.
func (c *Card) UpdateContent(front, back string, tag *string) error {
	if err := validateContent(front, back); err != nil {
		return err
	}

	c.Front = front
	c.Back = back
	c.Tag = NormalizeTag(tag)
	return nil
}

// IsDue reports whether the card's next review is at or before now.
func (c *Card) IsDue(now time.Time) bool {
	return !c.NextReview.After(now)
}

// HasTag reports whether the card carries exactly the given tag.
func (c *Card) HasTag(tag string) bool {
	return c.Tag != nil && *c.Tag == tag
}

// TagName returns the card's tag, or "" if it has none.
func (c *Card) TagName() string {
	if c.Tag == nil {
		return ""
	}
	return *c.Tag
}

// Accuracy returns the fraction of reviews answered correctly, 0 for unreviewed cards.
func (c *Card) Accuracy() float64 {
	if c.ReviewCount == 0 {
		return 0
	}
	return float64(c.CorrectCount) / float64(c.ReviewCount)
}

// NormalizeTag maps blank tags to "no tag" and returns a private copy otherwise.
// Non-blank tags are kept verbatim so tag matching stays exact.
func NormalizeTag(tag *string) *string {
	if tag == nil || strings.TrimSpace(*tag) == "" {
		return nil
	}
	t := *tag
	return &t
}
