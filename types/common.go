package types

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeString is a 24-hr format time "HH:MM" such as "07:30".
type TimeString string

// MinutesPerDay is the length of a calendar day, and the TimeOfDay value for
// a range that runs until midnight.
const MinutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
// The value MinutesPerDay (24:00) is valid and marks the end of the day.
type TimeOfDay int

// NewTimeOfDay returns the TimeOfDay for the given hour and minute.
// Hour 24 is only accepted with minute 0.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 24 {
		return 0, fmt.Errorf("hour must be between 0 and 24, got %d", hour)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("minute must be between 0 and 59, got %d", minute)
	}
	if hour == 24 && minute != 0 {
		return 0, fmt.Errorf("24:%02d is not a valid time", minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// ParseTimeString parses a "HH:MM" string.
func ParseTimeString(s TimeString) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(string(s), ":")
	if !ok {
		return 0, fmt.Errorf("failed to parse time string %q; format must be HH:MM", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("failed to parse time string %q: %w", s, err)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("failed to parse time string %q: %w", s, err)
	}
	return NewTimeOfDay(hour, minute)
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// IsMidnight reports whether t is 00:00 or 24:00.
func (t TimeOfDay) IsMidnight() bool {
	return t == 0 || t == MinutesPerDay
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// DateRange is one interval of working time within a day.
type DateRange struct {
	From TimeOfDay
	To   TimeOfDay
}

// NewDateRange builds a DateRange. A range ending at 00:00 ends at midnight
// of the same day, so "16:00-00:00" is the last eight hours of the day.
func NewDateRange(from, to TimeOfDay) (DateRange, error) {
	if to == 0 {
		to = MinutesPerDay
	}
	if from < 0 || from >= MinutesPerDay {
		return DateRange{}, fmt.Errorf("range start %s is out of bounds", from)
	}
	if to <= from || to > MinutesPerDay {
		return DateRange{}, fmt.Errorf("range %s-%s does not end after it starts", from, to)
	}
	return DateRange{From: from, To: to}, nil
}

// Minutes returns the length of the range.
func (r DateRange) Minutes() int {
	return int(r.To - r.From)
}

// Contains reports whether t lies within [From, To).
func (r DateRange) Contains(t TimeOfDay) bool {
	return t >= r.From && t < r.To
}

// Overlaps reports whether the two ranges share any minute.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.From < o.To && o.From < r.To
}

func (r DateRange) String() string {
	return r.From.String() + "-" + r.To.String()
}
