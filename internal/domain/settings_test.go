package domain

import (
	"errors"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	t.Parallel()
	s := DefaultSettings()
	if s.Algorithm != AlgorithmSM2 {
		t.Errorf("Expected SM2, got %q", s.Algorithm)
	}
	want := []int{1, 3, 7, 14, 30}
	if len(s.LeitnerIntervals) != len(want) {
		t.Fatalf("Expected %v, got %v", want, s.LeitnerIntervals)
	}
	for i := range want {
		if s.LeitnerIntervals[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, s.LeitnerIntervals)
		}
	}
	if s.ExponentialBase != 2.0 {
		t.Errorf("Expected base 2.0, got %v", s.ExponentialBase)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Expected defaults to be valid, got %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(s *AppSettings)
		want   error
	}{
		{"unknown algorithm", func(s *AppSettings) { s.Algorithm = "FSRS" }, ErrInvalidAlgorithm},
		{"empty intervals", func(s *AppSettings) { s.LeitnerIntervals = nil }, ErrInvalidSettings},
		{"zero interval", func(s *AppSettings) { s.LeitnerIntervals = []int{1, 0} }, ErrInvalidSettings},
		{"base of one", func(s *AppSettings) { s.ExponentialBase = 1.0 }, ErrInvalidSettings},
		{"leitner custom", func(s *AppSettings) {
			s.Algorithm = AlgorithmLeitner
			s.LeitnerIntervals = []int{2, 5, 10, 21, 45}
		}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			tc.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSettingsClone(t *testing.T) {
	t.Parallel()
	s := DefaultSettings()
	c := s.Clone()
	c.LeitnerIntervals[0] = 99
	if s.LeitnerIntervals[0] != 1 {
		t.Error("Expected clone not to alias the original intervals")
	}
}
