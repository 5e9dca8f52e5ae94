package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysBetween_Inclusive(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"2024-01-01", "2024-01-01", 1},
		{"2024-01-01", "2024-01-11", 11},
		{"2024-01-01", "2024-01-06", 6},
		{"2024-01-02", "2024-01-01", 0},
		{"2024-02-28", "2024-03-01", 3}, // leap year
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DaysBetween(Must(tc.a), Must(tc.b)), "%s..%s", tc.a, tc.b)
	}
}

func TestParse_AcceptsTimestamps(t *testing.T) {
	got, ok := Parse("2024-03-05T08:00:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got)

	got, ok = Parse("2024-03-05T23:30:00Z")
	require.True(t, ok)
	assert.Equal(t, "2024-03-05", Format(got))
}

func TestParse_Blank(t *testing.T) {
	_, ok := Parse("  ")
	assert.False(t, ok)
	assert.Nil(t, ParsePtr("not a date"))
	assert.Equal(t, "", FormatPtr(nil))
}

func TestRange(t *testing.T) {
	days := Range(Must("2023-12-30"), Must("2024-01-02"))
	require.Len(t, days, 4)
	assert.Equal(t, "2023-12-30", Format(days[0]))
	assert.Equal(t, "2024-01-02", Format(days[3]))

	assert.Empty(t, Range(Must("2024-01-02"), Must("2024-01-01")))
}

func TestFraction(t *testing.T) {
	a, b := Must("2024-01-01"), Must("2024-01-05")
	assert.InDelta(t, 0.5, Fraction(a, b, Must("2024-01-03")), 1e-9)
	assert.Equal(t, 0.0, Fraction(a, a, a))
}

func TestEqual(t *testing.T) {
	a := Ptr(Must("2024-01-01"))
	b := Ptr(Must("2024-01-01"))
	assert.True(t, Equal(a, b))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(a, nil))
}
