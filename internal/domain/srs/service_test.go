package srs

import (
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCard(t *testing.T, now time.Time) *domain.Card {
	t.Helper()
	card, err := domain.NewCard("Question", "Answer", nil, now)
	require.NoError(t, err)
	return card
}

func TestNewDefaultService(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service, err := NewDefaultService()
	require.NoError(t, err, "Failed to create SRS service")

	defaultService, ok := service.(*defaultService)
	require.True(t, ok, "Expected *defaultService type")
	assert.NotNil(t, defaultService.params)
}

func TestNewServiceWithParamsValidation(t *testing.T) {
	t.Parallel()
	_, err := NewServiceWithParams(nil)
	assert.ErrorIs(t, err, ErrInvalidParams)

	tests := []struct {
		name     string
		min, max float64
	}{
		{"inverted bounds", 2, 1.5},
		{"floor below card minimum", 1.0, 5.0},
		{"ceiling above card maximum", 1.3, 6.0},
	}
	for _, tc := range tests {
		_, err := NewServiceWithParams(NewParams(ParamsConfig{MinEaseFactor: tc.min, MaxEaseFactor: tc.max}))
		assert.ErrorIs(t, err, ErrInvalidParams, tc.name)
	}

	_, err = NewServiceWithParams(NewParams(ParamsConfig{MinEaseFactor: 1.5, MaxEaseFactor: 4.0}))
	assert.NoError(t, err)
}

func TestCalculateNextReviewSM2Progression(t *testing.T) {
	t.Parallel()
	service, err := NewDefaultService()
	require.NoError(t, err)
	settings := domain.DefaultSettings()
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	card := newTestCard(t, now)

	// first Good
	next, err := service.CalculateNextReview(card, domain.DifficultyGood, settings, now)
	require.NoError(t, err)
	assert.Equal(t, 1, next.Interval)
	assert.Equal(t, 2.5, next.EaseFactor)

	card.Interval, card.ReviewCount = next.Interval, 1
	next, err = service.CalculateNextReview(card, domain.DifficultyGood, settings, now)
	require.NoError(t, err)
	assert.Equal(t, 6, next.Interval)

	card.Interval, card.ReviewCount = 10, 2
	next, err = service.CalculateNextReview(card, domain.DifficultyGood, settings, now)
	require.NoError(t, err)
	assert.Equal(t, 25, next.Interval)
	assert.True(t, now.Add(25*24*time.Hour).Equal(next.NextReview))
}

func TestCalculateNextReviewEasyOnMatureCard(t *testing.T) {
	t.Parallel()
	service, err := NewDefaultService()
	require.NoError(t, err)
	now := time.Now().UTC()

	card := newTestCard(t, now)
	card.Interval, card.ReviewCount = 10, 5

	next, err := service.CalculateNextReview(card, domain.DifficultyEasy, domain.DefaultSettings(), now)
	require.NoError(t, err)
	assert.Equal(t, 33, next.Interval)
	assert.InDelta(t, 2.65, next.EaseFactor, 1e-9)
}

func TestCalculateNextReviewAgainNeverRaisesEase(t *testing.T) {
	t.Parallel()
	service, err := NewDefaultService()
	require.NoError(t, err)
	now := time.Now().UTC()

	for _, alg := range []domain.Algorithm{
		domain.AlgorithmSM2,
		domain.AlgorithmLeitner,
		domain.AlgorithmSimpleExponential,
	} {
		for _, ease := range []float64{1.3, 1.45, 2.5, 5.0} {
			settings := domain.DefaultSettings()
			settings.Algorithm = alg
			card := newTestCard(t, now)
			card.EaseFactor = ease
			card.ReviewCount = 3
			card.Interval = 8

			next, err := service.CalculateNextReview(card, domain.DifficultyAgain, settings, now)
			require.NoError(t, err)
			assert.LessOrEqual(t, next.EaseFactor, ease, "%s from %v", alg, ease)
			assert.GreaterOrEqual(t, next.EaseFactor, 1.3)
		}
	}
}

func TestCalculateNextReviewDoesNotMutateCard(t *testing.T) {
	t.Parallel()
	service, err := NewDefaultService()
	require.NoError(t, err)
	now := time.Now().UTC()

	card := newTestCard(t, now)
	before := *card

	_, err = service.CalculateNextReview(card, domain.DifficultyEasy, domain.DefaultSettings(), now)
	require.NoError(t, err)
	assert.Equal(t, before, *card)
}

func TestCalculateNextReviewErrors(t *testing.T) {
	t.Parallel()
	service, err := NewDefaultService()
	require.NoError(t, err)
	now := time.Now().UTC()

	_, err = service.CalculateNextReview(nil, domain.DifficultyGood, domain.DefaultSettings(), now)
	assert.True(t, errors.Is(err, ErrNilCard))

	_, err = service.CalculateNextReview(newTestCard(t, now), "meh", domain.DefaultSettings(), now)
	assert.ErrorIs(t, err, domain.ErrInvalidDifficulty)

	settings := domain.DefaultSettings()
	settings.Algorithm = "Unknown"
	_, err = service.CalculateNextReview(newTestCard(t, now), domain.DifficultyGood, settings, now)
	assert.ErrorIs(t, err, domain.ErrInvalidAlgorithm)
}
