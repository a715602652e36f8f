package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is the root of every "missing record" error.
	ErrNotFound = errors.New("entity not found")

	// ErrCardNotFound narrows ErrNotFound to cards.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrCorruptSnapshot marks a persisted snapshot that cannot be decoded
	// or decodes into an invalid record.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrInvalidEntity marks a record the backend refused to store.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed marks a begin or commit failure.
	ErrTransactionFailed = errors.New("transaction failed")
)

// IsNotFoundError reports whether err is, or wraps, ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError records which snapshot and which step a backend failure came from.
type StoreError struct {
	Entity    string // EntityCards or EntitySettings
	Operation string // "load" or "save"
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s failed: %s", e.Operation, e.Entity, e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError builds a StoreError; err may be nil.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
