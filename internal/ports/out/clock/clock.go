// Package clock abstracts wall-clock time so services can run against a controllable clock.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// Today is the calendar date of c.Now() in the clock's own location, as UTC midnight.
func Today(c Clock) time.Time {
	y, m, d := c.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
