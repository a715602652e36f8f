// Package service owns the in-memory card collection and the settings record.
//
// A CardService is constructed once at startup from a store.CardStore and a
// store.SettingsStore and passed to every caller. Each mutation runs under the
// lock of the resource it touches and writes the full snapshot through to the
// store before the lock is released. When the write fails the in-memory change
// stays in place and the caller receives an error wrapping ErrPersistence.
//
// A panic inside a critical section poisons that resource's lock: later
// operations on it fail with ErrLockFailure rather than observing state the
// panic may have left half-updated.
package service
