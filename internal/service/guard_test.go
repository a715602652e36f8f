package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardedMutex(t *testing.T) {
	var g guardedMutex

	errBoom := errors.New("boom")
	assert.ErrorIs(t, g.run(func() error { return errBoom }), errBoom)
	assert.NoError(t, g.run(func() error { return nil }), "returned errors do not poison")

	assert.Panics(t, func() {
		_ = g.run(func() error { panic("half-updated") })
	})

	called := false
	err := g.run(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrLockFailure)
	assert.False(t, called, "poisoned guard must not run the critical section")
}
