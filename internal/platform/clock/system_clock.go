package clock

import "time"

// SystemClock reads the wall clock in the club's timezone so that "today" for renewals and
// export filenames follows local midnight.
type SystemClock struct {
	loc *time.Location
}

func NewSystemClock() SystemClock { return SystemClock{loc: time.UTC} }

// NewSystemClockIn returns a clock reporting time in loc. A nil loc means UTC.
func NewSystemClockIn(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return SystemClock{loc: loc}
}

func (c SystemClock) Now() time.Time {
	if c.loc == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.loc)
}
