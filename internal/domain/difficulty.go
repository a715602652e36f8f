package domain

import "fmt"

// ReviewDifficulty is the outcome a learner reports after recalling a card.
// It is a closed set; integer codes only exist at the API boundary.
type ReviewDifficulty string

// Possible review difficulty values
const (
	DifficultyAgain ReviewDifficulty = "again"
	DifficultyHard  ReviewDifficulty = "hard"
	DifficultyGood  ReviewDifficulty = "good"
	DifficultyEasy  ReviewDifficulty = "easy"
)

var difficultyByCode = [...]ReviewDifficulty{
	DifficultyAgain,
	DifficultyHard,
	DifficultyGood,
	DifficultyEasy,
}

// DifficultyFromCode converts the 0-3 wire encoding into a ReviewDifficulty.
// Any other value is rejected with an error naming the offending code.
func DifficultyFromCode(code int) (ReviewDifficulty, error) {
	if code < 0 || code >= len(difficultyByCode) {
		return "", &InvalidDifficultyError{Code: code}
	}
	return difficultyByCode[code], nil
}

// InvalidDifficultyError reports a wire code outside 0-3. It matches ErrInvalidDifficulty.
type InvalidDifficultyError struct {
	Code int
}

func (e *InvalidDifficultyError) Error() string {
	return fmt.Sprintf("%s: %d", ErrInvalidDifficulty, e.Code)
}

func (e *InvalidDifficultyError) Unwrap() error { return ErrInvalidDifficulty }

// Code returns the 0-3 wire encoding of d, or -1 if d is not a known difficulty.
func (d ReviewDifficulty) Code() int {
	for i, v := range difficultyByCode {
		if v == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is one of the four known difficulties.
func (d ReviewDifficulty) Valid() bool {
	return d.Code() >= 0
}

// IsCorrect reports whether the review counts as a successful recall.
func (d ReviewDifficulty) IsCorrect() bool {
	return d == DifficultyGood || d == DifficultyEasy
}
