// Package clock abstracts "what day is it" so period computations stay
// testable without wall-clock coupling.
package clock

import "time"

type Clock interface {
	// Today returns the current date truncated to UTC midnight.
	Today() time.Time
}

// System reads the wall clock.
type System struct{}

func (System) Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Fixed always reports the same date. Intended for tests.
type Fixed struct {
	Date time.Time
}

func (f Fixed) Today() time.Time { return f.Date }
