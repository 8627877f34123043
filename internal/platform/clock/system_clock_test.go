package clock

import (
	"testing"
	"time"

	clockport "github.com/steelcity-drags/roster-api/internal/ports/out/clock"
)

type fixed time.Time

func (f fixed) Now() time.Time { return time.Time(f) }

func TestSystemClock_Location(t *testing.T) {
	t.Parallel()

	if got := NewSystemClock().Now().Location(); got != time.UTC {
		t.Fatalf("NewSystemClock().Now() location=%v, want UTC", got)
	}
	loc := time.FixedZone("AEST", 10*60*60)
	if got := NewSystemClockIn(loc).Now().Location(); got != loc {
		t.Fatalf("NewSystemClockIn().Now() location=%v, want %v", got, loc)
	}
	if got := NewSystemClockIn(nil).Now().Location(); got != time.UTC {
		t.Fatalf("NewSystemClockIn(nil).Now() location=%v, want UTC", got)
	}
	var zero SystemClock
	if got := zero.Now().Location(); got != time.UTC {
		t.Fatalf("zero SystemClock location=%v, want UTC", got)
	}
}

func TestToday_UsesClockLocation(t *testing.T) {
	t.Parallel()

	// 22:30 UTC on 31 May is already 1 June in Sydney.
	utc := time.Date(2025, 5, 31, 22, 30, 0, 0, time.UTC)
	aest := time.FixedZone("AEST", 10*60*60)

	if got := clockport.Today(fixed(utc)); !got.Equal(time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Today(utc)=%v", got)
	}
	if got := clockport.Today(fixed(utc.In(aest))); !got.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Today(aest)=%v", got)
	}
}
