package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestDifficultyFromCode(t *testing.T) {
	t.Parallel()
	want := []ReviewDifficulty{DifficultyAgain, DifficultyHard, DifficultyGood, DifficultyEasy}
	for code, expected := range want {
		got, err := DifficultyFromCode(code)
		if err != nil {
			t.Fatalf("code %d: unexpected error %v", code, err)
		}
		if got != expected {
			t.Errorf("code %d: expected %q, got %q", code, expected, got)
		}
		if got.Code() != code {
			t.Errorf("expected round trip code %d, got %d", code, got.Code())
		}
	}
}

func TestDifficultyFromCodeRejectsOutOfRange(t *testing.T) {
	t.Parallel()
	for _, code := range []int{-1, 4, 255} {
		_, err := DifficultyFromCode(code)
		if !errors.Is(err, ErrInvalidDifficulty) {
			t.Errorf("code %d: expected ErrInvalidDifficulty, got %v", code, err)
		}
	}

	_, err := DifficultyFromCode(7)
	if err == nil || !strings.Contains(err.Error(), "7") {
		t.Errorf("expected error to name the offending value, got %v", err)
	}
	var invalid *InvalidDifficultyError
	if !errors.As(err, &invalid) || invalid.Code != 7 {
		t.Errorf("expected InvalidDifficultyError with code 7, got %v", err)
	}
}

func TestDifficultyIsCorrect(t *testing.T) {
	t.Parallel()
	cases := map[ReviewDifficulty]bool{
		DifficultyAgain: false,
		DifficultyHard:  false,
		DifficultyGood:  true,
		DifficultyEasy:  true,
	}
	for d, want := range cases {
		if d.IsCorrect() != want {
			t.Errorf("%q: expected IsCorrect=%v", d, want)
		}
	}

	if ReviewDifficulty("meh").Valid() {
		t.Error("expected unknown difficulty to be invalid")
	}
}
