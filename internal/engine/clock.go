package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// Only the outermost callers read it; every cycle function takes "today" as a parameter.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. It backs the --today override.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.At
}

// Today returns the clock's current local calendar day as a calendar date.
func Today(c Clock) time.Time {
	return DateOnly(c.Now())
}
