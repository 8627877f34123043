package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRenewalYears = errors.New("renewal years must be at least 1")

// MonthDay is a calendar anchor such as the end of the club's financial year.
type MonthDay struct {
	Month time.Month
	Day   int
}

// ParseMonthDay parses "MM-DD".
func ParseMonthDay(s string) (MonthDay, error) {
	t, err := time.Parse("01-02", s)
	if err != nil {
		return MonthDay{}, fmt.Errorf("invalid month-day %q (want MM-DD): %w", s, err)
	}
	return MonthDay{Month: t.Month(), Day: t.Day()}, nil
}

func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

// In returns the anchor date in the given year. Days past the end of the month clamp to its last day.
func (md MonthDay) In(year int) time.Time {
	last := time.Date(year, md.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	day := md.Day
	if day > last {
		day = last
	}
	return time.Date(year, md.Month, day, 0, 0, 0, 0, time.UTC)
}

// RenewalPolicy configures how renewal windows are computed for one kind of record.
type RenewalPolicy struct {
	Anchor         MonthDay
	LookbackMonths int
}

// RenewalWindow is the computed paid/entry date and expiry date of a renewal.
type RenewalWindow struct {
	Start  time.Time
	Expiry time.Time
}

// ComputeRenewalWindow computes the start and expiry dates of a renewal of the given length.
//
// Multi-year renewals anchor to the previous start date when it lies within the lookback window
// before today; otherwise (and always for single-year renewals) they anchor to today. The expiry
// is the policy anchor in the year anchor.Year()+years.
func ComputeRenewalWindow(today time.Time, previous *time.Time, years int, p RenewalPolicy) (RenewalWindow, error) {
	if years < 1 {
		return RenewalWindow{}, ErrInvalidRenewalYears
	}
	today = DateOnly(today)
	anchor := today
	if years > 1 && previous != nil && !previous.IsZero() {
		cutoff := today.AddDate(0, -p.LookbackMonths, 0)
		prev := DateOnly(*previous)
		if !prev.Before(cutoff) {
			anchor = prev
		}
	}
	return RenewalWindow{
		Start:  anchor,
		Expiry: p.Anchor.In(anchor.Year() + years),
	}, nil
}
