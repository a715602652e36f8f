package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/scry-deck/internal/store"
)

// Service errors. Callers check them with errors.Is; the API layer maps them
// to HTTP status codes.
var (
	// ErrCardNotFound indicates that no card exists with the requested ID.
	ErrCardNotFound = store.ErrCardNotFound

	// ErrLockFailure indicates that a guarded resource was poisoned by a panic
	// inside an earlier critical section. It is never recovered from at runtime.
	ErrLockFailure = errors.New("lock acquisition failed: resource poisoned by an earlier panic")

	// ErrPersistence indicates that the durable write failed after the
	// in-memory state had already been changed.
	ErrPersistence = errors.New("failed to persist changes")
)

// CardServiceError is a custom error type for card service errors.
type CardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for CardServiceError.
func (e *CardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("card service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("card service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CardServiceError) Unwrap() error {
	return e.Err
}

// NewCardServiceError creates a new CardServiceError.
func NewCardServiceError(operation, message string, err error) *CardServiceError {
	return &CardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
