package repository

import (
	"time"
)

const timestampLayout = time.RFC3339Nano

// parseTimestamp reads a stored timestamp; unreadable values are the zero time.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// formatTimestamp converts t to UTC storage text, using now for the zero time.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timestampLayout)
}
