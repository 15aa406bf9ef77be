package scheduling

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/dromara/carbon/v2"

	"github.com/Xevion/go-mpx/internal"
)

// searchDays bounds how far a filtered trigger looks for a working date.
const searchDays = 1000

type Trigger interface {
	// NextTime calculates the next occurrence of this trigger after the given time
	NextTime(now time.Time) *time.Time
	Hash() uint64
}

// WorkingCalendar reports whether a date is a working date.
type WorkingCalendar interface {
	IsWorkingDate(date time.Time) bool
}

// FixedTimeTrigger represents a trigger at a specific hour and minute each day
type FixedTimeTrigger struct {
	Hour   int // 0-23
	Minute int // 0-59
}

func (t *FixedTimeTrigger) NextTime(now time.Time) *time.Time {
	next := internal.AtTime(now, t.Hour, t.Minute)

	// If the calculated time is before or equal to now, advance to the next day
	if !next.After(now) {
		next = carbon.CreateFromStdTime(next).AddDay().StdTime()
	}

	return internal.Ptr(next)
}

// Hash returns a stable hash value for the FixedTimeTrigger
func (t *FixedTimeTrigger) Hash() uint64 {
	h := fnv.New64()
	fmt.Fprintf(h, "%d:%d", t.Hour, t.Minute)
	return h.Sum64()
}

// WorkingDayTrigger fires when the wrapped trigger fires on a working date of
// the calendar, skipping occurrences that fall on non-working dates.
type WorkingDayTrigger struct {
	trigger  Trigger
	calendar WorkingCalendar
	name     string // required for hash
}

// NewWorkingDayTrigger filters trigger through calendar. name identifies the
// calendar in the hash.
func NewWorkingDayTrigger(trigger Trigger, calendar WorkingCalendar, name string) *WorkingDayTrigger {
	return &WorkingDayTrigger{trigger: trigger, calendar: calendar, name: name}
}

// NextTime returns the first occurrence after now on a working date, or nil
// when none falls within the search window.
func (t *WorkingDayTrigger) NextTime(now time.Time) *time.Time {
	limit := carbon.CreateFromStdTime(now).AddDays(searchDays).StdTime()

	next := t.trigger.NextTime(now)
	for next != nil && !next.After(limit) {
		if t.calendar.IsWorkingDate(*next) {
			return next
		}
		// Jump to the end of the non-working date rather than stepping through
		// every occurrence inside it.
		next = t.trigger.NextTime(internal.EndOfDay(*next))
	}

	return nil
}

// Hash returns a stable hash value for the WorkingDayTrigger
func (t *WorkingDayTrigger) Hash() uint64 {
	h := fnv.New64()
	fmt.Fprintf(h, "working:%s:%d", t.name, t.trigger.Hash())
	return h.Sum64()
}

// CompositeDailySchedule combines multiple triggers into a single daily schedule.
type CompositeDailySchedule struct {
	triggers []Trigger
}

// NextTime returns the next time the first viable trigger will run.
func (c *CompositeDailySchedule) NextTime(now time.Time) *time.Time {
	best := c.triggers[0].NextTime(now)

	for _, trigger := range c.triggers[1:] {
		potential := trigger.NextTime(now)
		if potential != nil && (best == nil || potential.Before(*best)) {
			best = potential
		}
	}

	return best
}

// Hash returns a stable hash value for the CompositeDailySchedule
func (c *CompositeDailySchedule) Hash() uint64 {
	h := fnv.New64()
	for _, trigger := range c.triggers {
		fmt.Fprintf(h, "%d", trigger.Hash())
	}
	return h.Sum64()
}

// Upcoming returns up to n successive occurrences of trigger after now.
func Upcoming(trigger Trigger, now time.Time, n int) []time.Time {
	var out []time.Time
	for len(out) < n {
		next := trigger.NextTime(now)
		if next == nil {
			break
		}
		out = append(out, *next)
		now = *next
	}
	return out
}
