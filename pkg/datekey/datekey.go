// Package datekey converts calendar days to and from the canonical YYYY-MM-DD keys
// used to index taken-records and events, and handles the HH:MM clock strings
// attached to medications, events and taken-records.
package datekey

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// Layout is the date-key layout.
	Layout = "2006-01-02"
	// ClockLayout is the zero-padded 24h layout of every stored time of day.
	ClockLayout = "15:04"
)

var (
	ErrInvalidKey   = errors.New("invalid date key")
	ErrInvalidClock = errors.New("invalid time of day")
)

// Format returns the date-key of the calendar day t falls on, in t's location.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse turns a date-key back into the start of that day in the local time zone.
func Parse(key string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, strings.TrimSpace(key), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidKey, key, err)
	}
	return t, nil
}

// StartOfDay zeroes the time of day, keeping t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays returns the start of the day n calendar days after t.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

// Compare compares the calendar days of a and b, ignoring the time of day.
// It returns -1 if a is an earlier day, 0 for the same day and +1 for a later day.
func Compare(a, b time.Time) int {
	da, db := civil(a), civil(b)
	switch {
	case da.Before(db):
		return -1
	case da.After(db):
		return 1
	default:
		return 0
	}
}

// DaysBetween returns the number of calendar days from `from` to `to`.
// The result does not depend on DST transitions between the two days.
func DaysBetween(from, to time.Time) int {
	return int(civil(to).Sub(civil(from)).Hours() / 24)
}

// civil maps the calendar day of t onto UTC midnight so day arithmetic is exact.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatClock formats the time of day of t as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// ParseClock validates a time of day and normalizes it to zero-padded HH:MM,
// so "9:05" becomes "09:05". Normalized values sort lexicographically in
// chronological order.
func ParseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidClock)
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w %q", ErrInvalidClock, s)
	}
	return t.Format(ClockLayout), nil
}
