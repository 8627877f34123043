package domain

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for date-only values.
const DateLayout = "2006-01-02"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TrimToNil trims s and returns nil when the result is empty.
func TrimToNil(s string) *string {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	return &v
}

// NormalizeOptional applies TrimToNil to an optional value.
func NormalizeOptional(p *string) *string {
	if p == nil {
		return nil
	}
	return TrimToNil(*p)
}

// NormalizeText applies NormalizeNewlines then TrimToNil to an optional free-text value.
func NormalizeText(p *string) *string {
	if p == nil {
		return nil
	}
	return TrimToNil(NormalizeNewlines(*p))
}

// NormalizeNewlines converts CRLF and lone CR line breaks to LF.
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}

// NormalizeNameList trims every entry and drops empty ones.
func NormalizeNameList(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if v := NormalizeHumanName(n); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// DateOnly truncates t to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD value.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders an optional date as YYYY-MM-DD, or "" when absent.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

// CompareMemberNumbers orders member numbers numerically when both parse as integers and
// lexically otherwise. Numeric numbers sort before non-numeric ones.
func CompareMemberNumbers(a, b string) int {
	an, aErr := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
	bn, bErr := strconv.ParseInt(strings.TrimSpace(b), 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return strings.Compare(a, b)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	return strings.Compare(a, b)
}
