package mpx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Xevion/go-mpx/internal"
	"github.com/Xevion/go-mpx/types"
)

// CalendarBuilder assembles a calendar from text, collecting every mistake
// instead of stopping at the first:
//
//	cal, err := NewCalendar("Standard").
//		Hours(types.Monday, "08:00-12:00", "13:00-17:00").
//		Holiday("2024-12-25", "2024-12-26").
//		Build()
type CalendarBuilder struct {
	calendar *Calendar
	location *time.Location
	errors   []error
}

// NewCalendar starts a base calendar working Monday to Friday.
func NewCalendar(name string) *CalendarBuilder {
	return &CalendarBuilder{calendar: NewBaseCalendar(name), location: time.Local}
}

// DerivedFrom starts a calendar inheriting every day from base.
func DerivedFrom(base *Calendar) *CalendarBuilder {
	b := &CalendarBuilder{location: time.Local}
	c, err := NewDerivedCalendar(base)
	if err != nil {
		b.errors = append(b.errors, err)
		c = &Calendar{}
	}
	b.calendar = c
	return b
}

// In sets the location dates are parsed in. The default is time.Local.
func (b *CalendarBuilder) In(loc *time.Location) *CalendarBuilder {
	if loc == nil {
		b.errors = append(b.errors, fmt.Errorf("%w: nil location", ErrInvalidArgs))
		return b
	}
	b.location = loc
	return b
}

// WorkingDays makes exactly the given days working and every other day
// non-working.
func (b *CalendarBuilder) WorkingDays(days ...types.Day) *CalendarBuilder {
	working := map[types.Day]bool{}
	for _, d := range days {
		if !d.Valid() {
			b.errors = append(b.errors, fmt.Errorf("%w: day %d", ErrInvalidArgs, int(d)))
			continue
		}
		working[d] = true
	}
	for _, d := range types.Week {
		if working[d] {
			b.calendar.days[d.Index()] = types.Working
		} else {
			b.calendar.days[d.Index()] = types.NonWorking
		}
	}
	return b
}

// Day sets a single day's flag.
func (b *CalendarBuilder) Day(day types.Day, t types.DayType) *CalendarBuilder {
	if err := b.calendar.SetWorkingDay(day, t); err != nil {
		b.errors = append(b.errors, err)
	}
	return b
}

// Hours records working periods such as "08:00-12:00" for day.
func (b *CalendarBuilder) Hours(day types.Day, ranges ...string) *CalendarBuilder {
	parsed, ok := b.ranges(ranges)
	if !ok {
		return b
	}
	h, err := b.calendar.AddHours(day)
	if err != nil {
		b.errors = append(b.errors, err)
		return b
	}
	for _, r := range parsed {
		if err := h.AddRange(r); err != nil {
			b.errors = append(b.errors, err)
		}
	}
	return b
}

// Holiday adds a one-day non-working exception for each ISO date.
func (b *CalendarBuilder) Holiday(dates ...string) *CalendarBuilder {
	for _, d := range dates {
		b.Exception(d, d, false)
	}
	return b
}

// Exception adds an exception from one ISO date to another, inclusive. A
// working exception may carry hour ranges.
func (b *CalendarBuilder) Exception(from, to string, working bool, ranges ...string) *CalendarBuilder {
	start, err := internal.ParseDate(from, b.location)
	if err != nil {
		b.errors = append(b.errors, err)
		return b
	}
	end, err := internal.ParseDate(to, b.location)
	if err != nil {
		b.errors = append(b.errors, err)
		return b
	}
	parsed, ok := b.ranges(ranges)
	if !ok {
		return b
	}

	e, err := b.calendar.AddException(start, end, working)
	if err != nil {
		b.errors = append(b.errors, err)
		return b
	}
	for _, r := range parsed {
		if err := e.AddRange(r); err != nil {
			b.errors = append(b.errors, err)
		}
	}
	return b
}

func (b *CalendarBuilder) ranges(texts []string) ([]types.DateRange, bool) {
	out := make([]types.DateRange, 0, len(texts))
	ok := true
	for _, text := range texts {
		r, err := parseRange(text)
		if err != nil {
			b.errors = append(b.errors, err)
			ok = false
			continue
		}
		out = append(out, r)
	}
	return out, ok
}

// parseRange parses "HH:MM-HH:MM". An end of "00:00" or "24:00" is the end
// of the day.
func parseRange(text string) (types.DateRange, error) {
	from, to, found := strings.Cut(text, "-")
	if !found {
		return types.DateRange{}, fmt.Errorf("%w: range %q must look like 08:00-12:00", ErrInvalidArgs, text)
	}
	var bounds [2]types.TimeOfDay
	for i, part := range []string{from, to} {
		t, err := types.ParseTimeString(types.TimeString(strings.TrimSpace(part)))
		if err != nil {
			return types.DateRange{}, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
		}
		bounds[i] = t
	}
	r, err := types.NewDateRange(bounds[0], bounds[1])
	if err != nil {
		return types.DateRange{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	return r, nil
}

// Build returns the calendar, or every error met while building it.
func (b *CalendarBuilder) Build() (*Calendar, error) {
	if len(b.errors) > 0 {
		return nil, errors.Join(b.errors...)
	}
	if err := b.calendar.Validate(); err != nil {
		return nil, err
	}
	return b.calendar, nil
}
