package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/scry-deck/internal/domain"
)

// Common errors
var (
	ErrNilCard        = errors.New("card cannot be nil")
	ErrInvalidParams  = errors.New("invalid SRS parameters")
	ErrNoLeitnerBoxes = errors.New("leitner scheduling requires at least one box")
)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// CalculateNextReview computes the next schedule for card after a review with
	// the given difficulty, using the algorithm selected in settings.
	CalculateNextReview(
		card *domain.Card,
		difficulty domain.ReviewDifficulty,
		settings domain.AppSettings,
		now time.Time,
	) (Schedule, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: params cannot be nil", ErrInvalidParams)
	}
	if params.MinEaseFactor < domain.MinEaseFactor ||
		params.MaxEaseFactor > domain.MaxEaseFactor ||
		params.MaxEaseFactor < params.MinEaseFactor {
		return nil, fmt.Errorf("%w: ease factor bounds [%v, %v]",
			ErrInvalidParams, params.MinEaseFactor, params.MaxEaseFactor)
	}

	return &defaultService{
		params: params,
	}, nil
}

// CalculateNextReview implements the Service interface for calculating the next schedule
func (s *defaultService) CalculateNextReview(
	card *domain.Card,
	difficulty domain.ReviewDifficulty,
	settings domain.AppSettings,
	now time.Time,
) (Schedule, error) {
	if card == nil {
		return Schedule{}, ErrNilCard
	}

	if !difficulty.Valid() {
		return Schedule{}, fmt.Errorf("%w: %q", domain.ErrInvalidDifficulty, difficulty)
	}

	scheduler, err := newScheduler(settings, s.params)
	if err != nil {
		return Schedule{}, err
	}

	return scheduler.Next(card, difficulty, now.UTC()), nil
}
