package domain

import (
	"fmt"
	"slices"
)

// Algorithm selects the scheduling strategy used for reviews.
type Algorithm string

// Supported scheduling algorithms
const (
	AlgorithmSM2               Algorithm = "SM2"
	AlgorithmLeitner           Algorithm = "Leitner"
	AlgorithmSimpleExponential Algorithm = "SimpleExponential"
)

// Valid reports whether a names a supported algorithm.
func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmSM2, AlgorithmLeitner, AlgorithmSimpleExponential:
		return true
	default:
		return false
	}
}

// AppSettings holds the process-wide scheduling configuration chosen by the user.
type AppSettings struct {
	Algorithm        Algorithm `json:"algorithm"`
	LeitnerIntervals []int     `json:"leitner_intervals"` // days, one entry per box
	ExponentialBase  float64   `json:"exponential_base"`
}

// DefaultSettings returns the settings used when none have been saved yet.
func DefaultSettings() AppSettings {
	return AppSettings{
		Algorithm:        AlgorithmSM2,
		LeitnerIntervals: []int{1, 3, 7, 14, 30},
		ExponentialBase:  2.0,
	}
}

// Validate checks if the AppSettings has valid data.
func (s AppSettings) Validate() error {
	if !s.Algorithm.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidSettings, ErrInvalidAlgorithm, s.Algorithm)
	}

	if len(s.LeitnerIntervals) == 0 {
		return fmt.Errorf("%w: leitner intervals cannot be empty", ErrInvalidSettings)
	}

	for i, days := range s.LeitnerIntervals {
		if days < 1 {
			return fmt.Errorf("%w: leitner box %d interval must be at least 1 day", ErrInvalidSettings, i)
		}
	}

	if s.ExponentialBase <= 1.0 {
		return fmt.Errorf("%w: exponential base must be greater than 1", ErrInvalidSettings)
	}

	return nil
}

// Clone returns a deep copy so callers cannot alias the interval slice.
func (s AppSettings) Clone() AppSettings {
	s.LeitnerIntervals = slices.Clone(s.LeitnerIntervals)
	return s
}
