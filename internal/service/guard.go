package service

import "sync"

// guardedMutex is a mutex that becomes unusable once a critical section panics.
// Every later run returns ErrLockFailure instead of touching state that may
// have been left half-updated.
type guardedMutex struct {
	mu       sync.Mutex
	poisoned bool
}

// run executes fn while holding the mutex.
func (g *guardedMutex) run(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.poisoned {
		return ErrLockFailure
	}

	defer func() {
		if p := recover(); p != nil {
			g.poisoned = true
			// ALLOW-PANIC: the panic belongs to the caller; the guard only records it
			panic(p)
		}
	}()

	return fn()
}
