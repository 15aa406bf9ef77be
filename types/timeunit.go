package types

import "strconv"

// TimeUnit is the unit of a duration. The integer values match the codes
// used in MPX files.
type TimeUnit int

const (
	Minutes TimeUnit = iota
	Hours
	Days
	Weeks
	Months
	Years
	Percent
	ElapsedMinutes
	ElapsedHours
	ElapsedDays
	ElapsedWeeks
	ElapsedMonths
	ElapsedYears
	ElapsedPercent
)

// TimeUnitCount is the number of defined units.
const TimeUnitCount = int(ElapsedPercent) + 1

// TimeUnitFromCode converts an MPX time unit code.
func TimeUnitFromCode(v int) (TimeUnit, bool) {
	u := TimeUnit(v)
	return u, u.Valid()
}

func (u TimeUnit) Valid() bool {
	return u >= Minutes && u <= ElapsedPercent
}

// IsElapsed reports whether u counts wall-clock time rather than working time.
func (u TimeUnit) IsElapsed() bool {
	return u >= ElapsedMinutes && u <= ElapsedPercent
}

// Working returns the non-elapsed counterpart of u.
func (u TimeUnit) Working() TimeUnit {
	if u.IsElapsed() {
		return u - ElapsedMinutes
	}
	return u
}

// Elapsed returns the elapsed counterpart of u.
func (u TimeUnit) Elapsed() TimeUnit {
	if u.IsElapsed() {
		return u
	}
	return u + ElapsedMinutes
}

func (u TimeUnit) String() string {
	names := [...]string{
		"minutes", "hours", "days", "weeks", "months", "years", "percent",
		"elapsed minutes", "elapsed hours", "elapsed days", "elapsed weeks",
		"elapsed months", "elapsed years", "elapsed percent",
	}
	if !u.Valid() {
		return "TimeUnit(" + itoa(int(u)) + ")"
	}
	return names[u]
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
