package mpx

import (
	"fmt"

	"github.com/Xevion/go-mpx/types"
)

// MaxRangesPerDay is the number of working periods an MPX hours or
// exception record can carry.
const MaxRangesPerDay = 3

// DefaultRanges are the working hours assumed for a working day that has no
// hours recorded: 08:00-12:00 and 13:00-17:00.
var DefaultRanges = []types.DateRange{
	{From: 8 * 60, To: 12 * 60},
	{From: 13 * 60, To: 17 * 60},
}

// CalendarHours holds the working periods of one weekday. An empty list
// means the hours were not specified, not that the day is non-working.
type CalendarHours struct {
	day    types.Day
	ranges []types.DateRange
}

func (h *CalendarHours) Day() types.Day {
	return h.day
}

// AddRange appends a working period. Periods must not overlap and a day holds
// at most MaxRangesPerDay of them.
func (h *CalendarHours) AddRange(r types.DateRange) error {
	ranges, err := appendRange(h.ranges, r)
	if err != nil {
		return fmt.Errorf("hours for %s: %w", h.day, err)
	}
	h.ranges = ranges
	return nil
}

// Ranges returns a copy of the working periods.
func (h *CalendarHours) Ranges() []types.DateRange {
	return append([]types.DateRange(nil), h.ranges...)
}

// Minutes returns the total working minutes of the recorded periods.
func (h *CalendarHours) Minutes() int {
	return sumMinutes(h.ranges)
}

func appendRange(ranges []types.DateRange, r types.DateRange) ([]types.DateRange, error) {
	if len(ranges) >= MaxRangesPerDay {
		return ranges, fmt.Errorf("%w: at most %d ranges per day", ErrLimitExceeded, MaxRangesPerDay)
	}
	if r.To <= r.From {
		return ranges, fmt.Errorf("%w: %s", ErrInvalidRange, r)
	}
	for _, existing := range ranges {
		if existing.Overlaps(r) {
			return ranges, fmt.Errorf("%w: %s overlaps %s", ErrInvalidArgs, r, existing)
		}
	}
	return append(ranges, r), nil
}

func sumMinutes(ranges []types.DateRange) int {
	total := 0
	for _, r := range ranges {
		total += r.Minutes()
	}
	return total
}
