package mpx

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dromara/carbon/v2"

	"github.com/Xevion/go-mpx/internal"
	"github.com/Xevion/go-mpx/types"
)

// MaxNonWorkingDays bounds how far a walk may go without meeting a working
// date before the calendar is treated as having no working time.
const MaxNonWorkingDays = 1000

// MaxDurationDays is the largest number of days DateFromDuration will walk.
const MaxDurationDays = 1_000_000

// Calendar is a weekly working pattern with date exceptions. A base calendar
// has a name and no parent; a derived (resource) calendar points at a base
// and may leave days as types.Default to inherit them.
//
// Calendars are not safe for concurrent mutation. Changes apply to the next
// query; nothing is cached.
type Calendar struct {
	UniqueID int

	name       string
	base       *Calendar
	days       [7]types.DayType
	hours      [7]*CalendarHours
	exceptions exceptionList
}

// NewBaseCalendar returns a named root calendar working Monday to Friday.
func NewBaseCalendar(name string) *Calendar {
	c := &Calendar{name: name}
	for _, d := range types.Week {
		c.days[d.Index()] = types.Working
	}
	c.days[types.Saturday.Index()] = types.NonWorking
	c.days[types.Sunday.Index()] = types.NonWorking
	return c
}

// NewDerivedCalendar returns a calendar inheriting every day from base.
func NewDerivedCalendar(base *Calendar) (*Calendar, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: derived calendar needs a base", ErrInvalidReference)
	}
	c := &Calendar{base: base}
	for _, d := range types.Week {
		c.days[d.Index()] = types.Default
	}
	return c, nil
}

// Name is empty for derived calendars.
func (c *Calendar) Name() string {
	return c.name
}

func (c *Calendar) SetName(name string) {
	c.name = name
}

// IsBaseCalendar reports whether c has no parent.
func (c *Calendar) IsBaseCalendar() bool {
	return c.base == nil
}

func (c *Calendar) Base() *Calendar {
	return c.base
}

// SetBase makes c inherit from base. It fails if base is c or one of c's
// descendants, and clearing the base fails while any day is types.Default.
func (c *Calendar) SetBase(base *Calendar) error {
	if base == nil {
		for _, d := range types.Week {
			if c.days[d.Index()] == types.Default {
				return fmt.Errorf("%w: %s defers to a base calendar", ErrInvalidReference, d)
			}
		}
		c.base = nil
		return nil
	}
	for ancestor := base; ancestor != nil; ancestor = ancestor.base {
		if ancestor == c {
			return fmt.Errorf("%w: %q cannot derive from %q", ErrCyclicBase, c.label(), base.label())
		}
	}
	c.base = base
	return nil
}

// root returns the base calendar at the top of c's chain.
func (c *Calendar) root() *Calendar {
	for c.base != nil {
		c = c.base
	}
	return c
}

// WorkingDay returns the raw flag stored for day.
func (c *Calendar) WorkingDay(day types.Day) types.DayType {
	if !day.Valid() {
		return types.NonWorking
	}
	return c.days[day.Index()]
}

// SetWorkingDay sets the flag for day. types.Default needs a base calendar.
func (c *Calendar) SetWorkingDay(day types.Day, t types.DayType) error {
	if !day.Valid() {
		return fmt.Errorf("%w: day %d", ErrInvalidArgs, int(day))
	}
	if t == types.Default && c.base == nil {
		return fmt.Errorf("%w: %s cannot be default without a base calendar", ErrInvalidReference, day)
	}
	c.days[day.Index()] = t
	return nil
}

// IsWorkingDay resolves day through the base chain. A default day without a
// base is reported as non-working; Validate reports it as an error.
func (c *Calendar) IsWorkingDay(day types.Day) bool {
	switch c.WorkingDay(day) {
	case types.Working:
		return true
	case types.Default:
		if c.base != nil {
			return c.base.IsWorkingDay(day)
		}
	}
	return false
}

// IsWorkingDate applies the first exception containing date, in the order
// they were added, and otherwise the weekly pattern.
func (c *Calendar) IsWorkingDate(date time.Time) bool {
	if e := c.exceptions.find(date); e != nil {
		return e.working
	}
	return c.IsWorkingDay(types.DayOf(date))
}

// AddHours creates the hours entry for day. Each day has at most one.
func (c *Calendar) AddHours(day types.Day) (*CalendarHours, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("%w: day %d", ErrInvalidArgs, int(day))
	}
	if c.hours[day.Index()] != nil {
		return nil, fmt.Errorf("%w: hours for %s already recorded", ErrLimitExceeded, day)
	}
	h := &CalendarHours{day: day}
	c.hours[day.Index()] = h
	return h, nil
}

// Hours returns the hours entry stored on c for day, or nil.
func (c *Calendar) Hours(day types.Day) *CalendarHours {
	if !day.Valid() {
		return nil
	}
	return c.hours[day.Index()]
}

// RemoveHours drops the hours entry for day.
func (c *Calendar) RemoveHours(day types.Day) {
	if day.Valid() {
		c.hours[day.Index()] = nil
	}
}

// AddException appends an exception covering from..to inclusive.
func (c *Calendar) AddException(from, to time.Time, working bool) (*CalendarException, error) {
	e, err := NewCalendarException(from, to, working)
	if err != nil {
		return nil, err
	}
	if err := c.exceptions.add(e); err != nil {
		return nil, fmt.Errorf("calendar %q: %w", c.label(), err)
	}
	return e, nil
}

// Exceptions returns the exceptions in the order they were added.
func (c *Calendar) Exceptions() []*CalendarException {
	return c.exceptions.all()
}

// RemoveException drops e, reporting whether it belonged to c.
func (c *Calendar) RemoveException(e *CalendarException) bool {
	return c.exceptions.remove(e)
}

// Exception returns the exception governing date, or nil.
func (c *Calendar) Exception(date time.Time) *CalendarException {
	return c.exceptions.find(date)
}

// DurationBetween counts the working dates from the day of start to the day
// of end, both inclusive. End falling on an earlier day than start is an
// error.
func (c *Calendar) DurationBetween(start, end time.Time) (Duration, error) {
	from := carbon.CreateFromStdTime(internal.StartOfDay(start))
	to := carbon.CreateFromStdTime(internal.StartOfDay(end))
	if from.Gt(to) {
		return Duration{}, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	days := daysInRange(from, to)
	working := 0
	current := from.StdTime()
	for ; days > 0; days-- {
		if c.IsWorkingDate(current) {
			working++
		}
		current = carbon.CreateFromStdTime(current).AddDay().StdTime()
	}
	return Duration{Amount: float64(working), Unit: types.Days}, nil
}

// daysInRange returns the inclusive number of calendar days from start to
// end using day-of-year numbering, so leap years need no special case.
func daysInRange(start, end *carbon.Carbon) int {
	startYear, endYear := start.Year(), end.Year()
	if startYear == endYear {
		return end.DayOfYear() - start.DayOfYear() + 1
	}

	days := start.DaysInYear() - start.DayOfYear() + 1
	loc := start.StdTime().Location()
	for year := startYear + 1; year < endYear; year++ {
		days += carbon.CreateFromStdTime(time.Date(year, time.January, 1, 0, 0, 0, 0, loc)).DaysInYear()
	}
	return days + end.DayOfYear()
}

// DateFromDuration returns the date d working days from start.
//
// The start day counts as the first day: a Monday start plus 5 days on a
// Monday to Friday calendar lands on Friday. Each working date visited,
// including the start, uses up one day; the walk stops on the date that uses
// the last one. Negative durations walk backwards the same way, so
// Wednesday minus 3 days lands on Monday. Fractional days round up. The time
// of day of start is kept.
//
// Elapsed units ignore the calendar and add wall-clock time. Percent units
// are rejected.
func (c *Calendar) DateFromDuration(start time.Time, d Duration) (time.Time, error) {
	switch {
	case d.Unit == types.Percent || d.Unit == types.ElapsedPercent:
		return time.Time{}, fmt.Errorf("%w: %s is not a span of time", ErrInvalidArgs, d.Unit)
	case d.Unit.IsElapsed():
		span := math.Round(d.ConvertUnits(types.ElapsedMinutes).Amount * float64(time.Minute))
		if math.IsNaN(span) || math.Abs(span) >= math.MaxInt64 {
			return time.Time{}, fmt.Errorf("%w: %v %s is out of range", ErrInvalidArgs, d.Amount, d.Unit)
		}
		return start.Add(time.Duration(span)), nil
	}

	days := d.ConvertUnits(types.Days).Amount
	if math.IsNaN(days) || math.Abs(days) > MaxDurationDays {
		return time.Time{}, fmt.Errorf("%w: %v %s is out of range", ErrInvalidArgs, d.Amount, d.Unit)
	}
	if days == 0 {
		return start, nil
	}
	backward := days < 0
	remaining := int(math.Ceil(math.Abs(days) - 1e-9))

	current := start
	idle := 0
	for {
		if c.IsWorkingDate(current) {
			remaining--
			idle = 0
		} else if idle++; idle > MaxNonWorkingDays {
			return time.Time{}, fmt.Errorf("%w: calendar %q", ErrNoWorkingTime, c.label())
		}
		if remaining <= 0 {
			return current, nil
		}
		if backward {
			current = carbon.CreateFromStdTime(current).SubDay().StdTime()
		} else {
			current = carbon.CreateFromStdTime(current).AddDay().StdTime()
		}
	}
}

// WorkingHours returns the working periods of date: the hours of a working
// exception, or of the weekday looked up through the base chain. A working
// date with no recorded hours gets DefaultRanges; a non-working date gets nil.
func (c *Calendar) WorkingHours(date time.Time) []types.DateRange {
	if e := c.exceptions.find(date); e != nil {
		if !e.working {
			return nil
		}
		if len(e.ranges) > 0 {
			return e.Ranges()
		}
		return append([]types.DateRange(nil), DefaultRanges...)
	}

	return c.DayHours(types.DayOf(date))
}

// DayHours returns the working periods of day in the weekly pattern,
// ignoring exceptions. Hours follow the base chain as far as the day is
// default; a working day with none recorded gets DefaultRanges.
func (c *Calendar) DayHours(day types.Day) []types.DateRange {
	if !c.IsWorkingDay(day) {
		return nil
	}
	for cal := c; cal != nil; cal = cal.base {
		if h := cal.hours[day.Index()]; h != nil && len(h.ranges) > 0 {
			return h.Ranges()
		}
		if cal.days[day.Index()] != types.Default {
			break
		}
	}
	return append([]types.DateRange(nil), DefaultRanges...)
}

// WorkingMinutes sums WorkingHours for date.
func (c *Calendar) WorkingMinutes(date time.Time) int {
	return sumMinutes(c.WorkingHours(date))
}

// Validate reports default days on a calendar without a base, and hours or
// exceptions that exceed the format's limits.
func (c *Calendar) Validate() error {
	var errs []error
	if check := CheckDefaultDays(c); check.fail {
		errs = append(errs, check.err)
	}
	if check := CheckHours(c); check.fail {
		errs = append(errs, check.err)
	}
	if check := CheckExceptions(c); check.fail {
		errs = append(errs, check.err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("calendar %q: %w", c.label(), errors.Join(errs...))
	}
	return nil
}

func (c *Calendar) label() string {
	if c.name != "" {
		return c.name
	}
	if c.base != nil {
		return "derived from " + c.base.label()
	}
	return fmt.Sprintf("#%d", c.UniqueID)
}

func (c *Calendar) String() string {
	return fmt.Sprintf("Calendar{ %s }", c.label())
}
