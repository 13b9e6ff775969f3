package tenure

import "time"

// Clock supplies "today" for calculations that default their reference date.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Used by tests and by
// historical reports pinned to an as-of date.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Today returns the clock's current calendar date.
func Today(c Clock) time.Time {
	if c == nil {
		c = SystemClock{}
	}
	return Normalize(c.Now())
}
