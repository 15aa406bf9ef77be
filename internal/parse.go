package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/dromara/carbon/v2"
)

// ParseDate parses an ISO date or date-time ("2024-01-05", "2024-01-05 09:30")
// as a wall-clock time in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	// Parsed in UTC since carbon only accepts locations it can load by name.
	c := carbon.Parse(strings.TrimSpace(s), carbon.UTC)
	if c.HasError() {
		return time.Time{}, fmt.Errorf("failed to parse date \"%s\": %w", s, c.Error)
	}
	if c.IsZero() || c.IsInvalid() {
		return time.Time{}, fmt.Errorf("failed to parse date \"%s\"", s)
	}
	t := c.StdTime()
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc), nil
}

// AtTime returns hour:minute on t's date in t's location. carbon's boundary
// and time setters rebuild the date in carbon's default timezone instead.
func AtTime(t time.Time, hour, minute int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, t.Location())
}

// StartOfDay returns midnight of t's date in t's location.
func StartOfDay(t time.Time) time.Time {
	return AtTime(t, 0, 0)
}

// EndOfDay returns the last instant of t's date in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// ParseDuration wraps time.ParseDuration with a message naming the input.
func ParseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("couldn't parse string duration: \"%s\" see https://pkg.go.dev/time#ParseDuration for valid time units: %w", s, err)
	}
	return d, nil
}
