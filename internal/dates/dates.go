// Package dates holds the calendar arithmetic shared by the progress engine
// and the wire codecs. All values are UTC midnights.
package dates

import (
	"math"
	"strings"
	"time"
)

// Layout is the ISO calendar-date layout used on every wire format.
const Layout = "2006-01-02"

// MaxSpanDays bounds the length of a daily series (15 years).
const MaxSpanDays = 5475

const day = 24 * time.Hour

var parseLayouts = []string{
	Layout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// Truncate drops the clock part of t and normalizes it to UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse reads a calendar date. Timestamps are accepted and truncated to
// their calendar day.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Truncate(t), true
		}
	}
	return time.Time{}, false
}

// ParsePtr is Parse for optional fields: blank or invalid input yields nil.
func ParsePtr(s string) *time.Time {
	t, ok := Parse(s)
	if !ok {
		return nil
	}
	return &t
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// FormatPtr renders an optional date, blank when nil.
func FormatPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return Format(*t)
}

// AddDays shifts a calendar date by n days.
func AddDays(t time.Time, n int) time.Time {
	return Truncate(t).AddDate(0, 0, n)
}

// DaysBetween is the inclusive day count from a to b:
// floor((b-a)/1d)+1. A one-day window yields 1, b one day before a yields 0.
func DaysBetween(a, b time.Time) int {
	diff := Truncate(b).Sub(Truncate(a))
	return int(math.Floor(diff.Hours()/24)) + 1
}

// Range lists every day from from through to inclusive. It is empty when
// to precedes from.
func Range(from, to time.Time) []time.Time {
	from, to = Truncate(from), Truncate(to)
	if to.Before(from) {
		return nil
	}
	n := DaysBetween(from, to)
	out := make([]time.Time, 0, n)
	for d := from; !d.After(to); d = d.Add(day) {
		out = append(out, d)
	}
	return out
}

// Fraction returns how far t lies between a and b in fractional days.
func Fraction(a, b, t time.Time) float64 {
	span := b.Sub(a).Hours() / 24
	if span == 0 {
		return 0
	}
	return t.Sub(a).Hours() / 24 / span
}

// Ptr returns a pointer to a truncated copy of t.
func Ptr(t time.Time) *time.Time {
	t = Truncate(t)
	return &t
}

// Must parses s and panics on failure. Intended for fixtures and tests.
func Must(s string) time.Time {
	t, ok := Parse(s)
	if !ok {
		panic("dates: invalid date " + s)
	}
	return t
}

// Equal reports whether two optional dates hold the same day.
func Equal(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
