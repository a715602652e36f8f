package srs

import (
	"github.com/phrazzld/scry-deck/internal/domain"
)

// Params defines all configurable parameters for the SM-2 scheduler.
// The Leitner and exponential schedulers take their parameters from
// domain.AppSettings instead.
type Params struct {
	// Core limits
	MinEaseFactor float64
	MaxEaseFactor float64

	// Adjustments for different review difficulties
	EaseFactorAdjustment map[domain.ReviewDifficulty]float64
	IntervalModifier     map[domain.ReviewDifficulty]float64

	// Staged intervals for the first and second successful review
	FirstReviewIntervals  map[domain.ReviewDifficulty]int
	SecondReviewIntervals map[domain.ReviewDifficulty]int

	// Interval after a lapse
	AgainInterval int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	// Core limits
	MinEaseFactor float64
	MaxEaseFactor float64

	// Ease factor adjustments
	AgainEaseFactorAdjustment float64
	HardEaseFactorAdjustment  float64
	EasyEaseFactorAdjustment  float64

	// Interval modifiers
	HardIntervalModifier float64
	EasyIntervalModifier float64
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor: domain.MinEaseFactor,
		MaxEaseFactor: domain.MaxEaseFactor,

		EaseFactorAdjustment: map[domain.ReviewDifficulty]float64{
			domain.DifficultyAgain: -0.20,
			domain.DifficultyHard:  -0.15,
			domain.DifficultyGood:  0.0,
			domain.DifficultyEasy:  0.15,
		},

		IntervalModifier: map[domain.ReviewDifficulty]float64{
			domain.DifficultyHard: 1.2,
			domain.DifficultyGood: 1.0, // multiplied by the ease factor
			domain.DifficultyEasy: 1.3, // multiplied by the ease factor
		},

		FirstReviewIntervals: map[domain.ReviewDifficulty]int{
			domain.DifficultyGood: 1,
			domain.DifficultyEasy: 4,
		},

		SecondReviewIntervals: map[domain.ReviewDifficulty]int{
			domain.DifficultyGood: 6,
			domain.DifficultyEasy: 6,
		},

		AgainInterval: 1,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	// Override core limits if provided
	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxEaseFactor > 0 {
		params.MaxEaseFactor = config.MaxEaseFactor
	}

	// Override ease factor adjustments if provided
	if config.AgainEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.DifficultyAgain] = config.AgainEaseFactorAdjustment
	}
	if config.HardEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.DifficultyHard] = config.HardEaseFactorAdjustment
	}
	if config.EasyEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.DifficultyEasy] = config.EasyEaseFactorAdjustment
	}

	// Override interval modifiers if provided
	if config.HardIntervalModifier > 0 {
		params.IntervalModifier[domain.DifficultyHard] = config.HardIntervalModifier
	}
	if config.EasyIntervalModifier > 0 {
		params.IntervalModifier[domain.DifficultyEasy] = config.EasyIntervalModifier
	}

	return params
}
