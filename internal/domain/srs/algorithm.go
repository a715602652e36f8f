package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-deck/internal/domain"
)

// Schedule is the scheduling state produced by a single review.
// Fields an algorithm does not own are carried over from the card unchanged.
type Schedule struct {
	Interval          int
	EaseFactor        float64
	LeitnerBox        int
	ExponentialFactor float64
	NextReview        time.Time
}

// Scheduler computes the next Schedule for one algorithm.
type Scheduler interface {
	// Algorithm identifies the variant implemented by the scheduler.
	Algorithm() domain.Algorithm

	// Next computes the schedule that results from reviewing card with the
	// given difficulty at now. The card is not modified.
	Next(card *domain.Card, difficulty domain.ReviewDifficulty, now time.Time) Schedule
}

// newScheduler selects the scheduler for the algorithm named in settings.
// Each variant receives only the parameters it uses.
func newScheduler(settings domain.AppSettings, params *Params) (Scheduler, error) {
	switch settings.Algorithm {
	case domain.AlgorithmSM2:
		return sm2Scheduler{params: params}, nil
	case domain.AlgorithmLeitner:
		if len(settings.LeitnerIntervals) == 0 {
			return nil, ErrNoLeitnerBoxes
		}
		return leitnerScheduler{intervals: settings.LeitnerIntervals}, nil
	case domain.AlgorithmSimpleExponential:
		return exponentialScheduler{base: settings.ExponentialBase}, nil
	default:
		return nil, domain.ErrInvalidAlgorithm
	}
}

// carryOver starts a Schedule from the card's current state.
func carryOver(card *domain.Card) Schedule {
	return Schedule{
		Interval:          card.Interval,
		EaseFactor:        card.EaseFactor,
		LeitnerBox:        card.LeitnerBox,
		ExponentialFactor: card.ExponentialFactor,
	}
}

// calculateNextReviewDate converts an interval in whole days into the next due instant.
func calculateNextReviewDate(interval int, now time.Time) time.Time {
	return now.Add(time.Duration(interval) * 24 * time.Hour)
}

// sm2Scheduler implements the SM-2 style ease/interval model.
type sm2Scheduler struct {
	params *Params
}

func (s sm2Scheduler) Algorithm() domain.Algorithm { return domain.AlgorithmSM2 }

func (s sm2Scheduler) Next(card *domain.Card, difficulty domain.ReviewDifficulty, now time.Time) Schedule {
	next := carryOver(card)
	next.Interval = calculateNewInterval(card.Interval, card.ReviewCount, card.EaseFactor, difficulty, s.params)
	next.EaseFactor = calculateNewEaseFactor(card.EaseFactor, difficulty, s.params)
	next.NextReview = calculateNextReviewDate(next.Interval, now)
	return next
}

// calculateNewEaseFactor determines the new ease factor based on the review difficulty.
//
// Again and Hard lower the ease factor, Good leaves it unchanged and Easy raises it.
// The result is clamped between params.MinEaseFactor and params.MaxEaseFactor, so
// repeated Again answers on a card at the floor keep it at the floor.
func calculateNewEaseFactor(
	currentEF float64,
	difficulty domain.ReviewDifficulty,
	params *Params,
) float64 {
	newEF := currentEF + params.EaseFactorAdjustment[difficulty]

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	if newEF > params.MaxEaseFactor {
		newEF = params.MaxEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the new interval in days.
//
// Algorithm behavior:
//   - Again: fixed params.AgainInterval (1 day)
//   - Hard: ceil(interval * 1.2)
//   - Good/Easy with reviewCount 0 or 1: the staged first/second intervals (1,6 and 4,6)
//   - Good otherwise: ceil(interval * easeFactor)
//   - Easy otherwise: ceil(interval * easeFactor * 1.3)
//
// reviewCount is measured before the current review is counted, and easeFactor
// is the value held before this review adjusts it.
func calculateNewInterval(
	currentInterval int,
	reviewCount int,
	easeFactor float64,
	difficulty domain.ReviewDifficulty,
	params *Params,
) int {
	switch difficulty {
	case domain.DifficultyAgain:
		return params.AgainInterval
	case domain.DifficultyHard:
		return ceilDays(float64(currentInterval) * params.IntervalModifier[domain.DifficultyHard])
	}

	switch reviewCount {
	case 0:
		return params.FirstReviewIntervals[difficulty]
	case 1:
		return params.SecondReviewIntervals[difficulty]
	}

	modifier := easeFactor * params.IntervalModifier[difficulty]
	return ceilDays(float64(currentInterval) * modifier)
}

func ceilDays(days float64) int {
	if days <= 0 {
		return 0
	}
	return int(math.Ceil(days))
}

// leitnerScheduler moves cards between boxes with fixed per-box intervals.
type leitnerScheduler struct {
	intervals []int
}

func (s leitnerScheduler) Algorithm() domain.Algorithm { return domain.AlgorithmLeitner }

func (s leitnerScheduler) Next(card *domain.Card, difficulty domain.ReviewDifficulty, now time.Time) Schedule {
	last := len(s.intervals) - 1

	// Boxes beyond the configured range (e.g. after shortening the
	// interval list) are treated as the last box.
	box := min(max(card.LeitnerBox, 0), last)

	switch difficulty {
	case domain.DifficultyAgain:
		box = 0
	case domain.DifficultyGood, domain.DifficultyEasy:
		box = min(box+1, last)
	}

	next := carryOver(card)
	next.LeitnerBox = box
	next.Interval = s.intervals[box]
	next.NextReview = calculateNextReviewDate(next.Interval, now)
	return next
}

// exponentialScheduler grows a per-card factor by a fixed base on every correct answer.
type exponentialScheduler struct {
	base float64
}

func (s exponentialScheduler) Algorithm() domain.Algorithm {
	return domain.AlgorithmSimpleExponential
}

func (s exponentialScheduler) Next(card *domain.Card, difficulty domain.ReviewDifficulty, now time.Time) Schedule {
	factor := card.ExponentialFactor
	if factor <= 0 {
		factor = domain.DefaultExponentialFactor
	}

	switch difficulty {
	case domain.DifficultyAgain:
		factor = domain.DefaultExponentialFactor
	case domain.DifficultyGood, domain.DifficultyEasy:
		factor *= s.base
	}

	next := carryOver(card)
	next.ExponentialFactor = factor
	next.Interval = max(1, int(math.Round(factor)))
	next.NextReview = calculateNextReviewDate(next.Interval, now)
	return next
}
