package srs

import (
	"testing"

	"github.com/phrazzld/scry-deck/internal/domain"
)

func TestNewDefaultParams(t *testing.T) {
	params := NewDefaultParams()

	if params.MinEaseFactor != 1.3 {
		t.Errorf("MinEaseFactor should be 1.3, got %f", params.MinEaseFactor)
	}

	if params.MaxEaseFactor != 5.0 {
		t.Errorf("MaxEaseFactor should be 5.0, got %f", params.MaxEaseFactor)
	}

	difficulties := []domain.ReviewDifficulty{
		domain.DifficultyAgain,
		domain.DifficultyHard,
		domain.DifficultyGood,
		domain.DifficultyEasy,
	}

	for _, d := range difficulties {
		if _, exists := params.EaseFactorAdjustment[d]; !exists {
			t.Errorf("EaseFactorAdjustment missing for difficulty %s", d)
		}
	}

	if params.FirstReviewIntervals[domain.DifficultyGood] != 1 ||
		params.FirstReviewIntervals[domain.DifficultyEasy] != 4 {
		t.Errorf("Unexpected first review intervals %v", params.FirstReviewIntervals)
	}

	if params.SecondReviewIntervals[domain.DifficultyGood] != 6 ||
		params.SecondReviewIntervals[domain.DifficultyEasy] != 6 {
		t.Errorf("Unexpected second review intervals %v", params.SecondReviewIntervals)
	}
}

func TestNewParams(t *testing.T) {
	params := NewParams(ParamsConfig{
		MaxEaseFactor:        3.0,
		HardIntervalModifier: 1.5,
	})

	if params.MaxEaseFactor != 3.0 {
		t.Errorf("Expected MaxEaseFactor 3.0, got %f", params.MaxEaseFactor)
	}

	if params.MinEaseFactor != 1.3 {
		t.Errorf("Expected default MinEaseFactor 1.3, got %f", params.MinEaseFactor)
	}

	if params.IntervalModifier[domain.DifficultyHard] != 1.5 {
		t.Errorf("Expected Hard modifier 1.5, got %f", params.IntervalModifier[domain.DifficultyHard])
	}

	if params.EaseFactorAdjustment[domain.DifficultyEasy] != 0.15 {
		t.Errorf("Expected default Easy adjustment, got %f", params.EaseFactorAdjustment[domain.DifficultyEasy])
	}
}
