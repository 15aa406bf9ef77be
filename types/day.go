package types

import "time"

// Day is a day of the week, numbered the way MPX files number them.
type Day int

const (
	Sunday Day = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// Week lists every Day in file order.
var Week = [7]Day{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// DayFromWeekday converts a time.Weekday.
func DayFromWeekday(w time.Weekday) Day {
	return Day(w) + 1
}

// DayOf returns the Day on which t falls, in t's location.
func DayOf(t time.Time) Day {
	return DayFromWeekday(t.Weekday())
}

// DayFromOrdinal converts a 1-based file ordinal.
func DayFromOrdinal(v int) (Day, bool) {
	d := Day(v)
	return d, d.Valid()
}

func (d Day) Valid() bool {
	return d >= Sunday && d <= Saturday
}

func (d Day) Weekday() time.Weekday {
	return time.Weekday(d - 1)
}

// Index is the zero-based position of d, suitable for [7] arrays.
func (d Day) Index() int {
	return int(d - 1)
}

// Next returns the following day, wrapping Saturday to Sunday.
func (d Day) Next() Day {
	if d == Saturday {
		return Sunday
	}
	return d + 1
}

// Prev returns the preceding day, wrapping Sunday to Saturday.
func (d Day) Prev() Day {
	if d == Sunday {
		return Saturday
	}
	return d - 1
}

func (d Day) String() string {
	if !d.Valid() {
		return "Day(" + itoa(int(d)) + ")"
	}
	return d.Weekday().String()
}

// DayType is the working status of a weekday in a calendar.
type DayType int

const (
	NonWorking DayType = iota
	Working
	// Default defers to the base calendar. Only meaningful on derived calendars.
	Default
)

// DayTypeFromCode converts the integer used in calendar records.
func DayTypeFromCode(v int) (DayType, bool) {
	t := DayType(v)
	return t, t >= NonWorking && t <= Default
}

func (t DayType) String() string {
	switch t {
	case NonWorking:
		return "non-working"
	case Working:
		return "working"
	case Default:
		return "default"
	default:
		return "DayType(" + itoa(int(t)) + ")"
	}
}
