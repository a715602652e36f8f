// Package srs implements the spaced repetition schedulers: an SM-2 style
// ease/interval model, Leitner box progression and simple exponential
// spacing. Every scheduler is a pure function of the card's current state,
// the review difficulty and the settings; none of them perform I/O.
package srs
