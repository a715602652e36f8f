// Package domain contains the flashcard entities and value types: cards,
// review difficulties, scheduling settings and the aggregate statistics
// computed over a card collection. It has no knowledge of persistence or
// transport.
package domain
