// Package ics renders a calendar's working time as an iCalendar feed: one
// weekly recurring event per distinct set of working hours, and one all-day
// event per exception.
package ics

import (
	"fmt"
	"slices"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/dromara/carbon/v2"
	"github.com/teambition/rrule-go"

	mpx "github.com/Xevion/go-mpx"
	"github.com/Xevion/go-mpx/internal"
	"github.com/Xevion/go-mpx/types"
)

const productID = "-//go-mpx//mpxcal//EN"

// Options controls an export.
type Options struct {
	// Name labels the feed and prefixes every UID.
	Name string
	// Start is the date the weekly pattern starts repeating from.
	Start time.Time
	// Stamp is written as DTSTAMP. Defaults to time.Now.
	Stamp time.Time
}

var weekdays = map[types.Day]rrule.Weekday{
	types.Sunday:    rrule.SU,
	types.Monday:    rrule.MO,
	types.Tuesday:   rrule.TU,
	types.Wednesday: rrule.WE,
	types.Thursday:  rrule.TH,
	types.Friday:    rrule.FR,
	types.Saturday:  rrule.SA,
}

// pattern is a set of days sharing the same working hours.
type pattern struct {
	days   []types.Day
	ranges []types.DateRange
}

func patterns(c *mpx.Calendar) []pattern {
	var out []pattern
	index := map[string]int{}
	for _, d := range types.Week {
		ranges := c.DayHours(d)
		if len(ranges) == 0 {
			continue
		}
		key := fmt.Sprint(ranges)
		if i, ok := index[key]; ok {
			out[i].days = append(out[i].days, d)
			continue
		}
		index[key] = len(out)
		out = append(out, pattern{days: []types.Day{d}, ranges: ranges})
	}
	return out
}

func slug(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "calendar"
	}
	return strings.Join(strings.Fields(name), "-")
}

// Export builds the feed for c.
func Export(c *mpx.Calendar, opts Options) (*ical.Calendar, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: no calendar", mpx.ErrInvalidArgs)
	}
	if opts.Name == "" {
		opts.Name = c.Name()
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now()
	}
	if opts.Stamp.IsZero() {
		opts.Stamp = time.Now()
	}
	prefix := slug(opts.Name)

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(opts.Name)

	start := carbon.CreateFromStdTime(internal.StartOfDay(opts.Start))
	for i, p := range patterns(c) {
		// First date on or after Start that falls on one of the pattern's days.
		first := start.StdTime()
		for !slices.Contains(p.days, types.DayOf(first)) {
			first = carbon.CreateFromStdTime(first).AddDay().StdTime()
		}

		byDay := make([]rrule.Weekday, 0, len(p.days))
		for _, d := range p.days {
			byDay = append(byDay, weekdays[d])
		}
		rule := (&rrule.ROption{Freq: rrule.WEEKLY, Byweekday: byDay}).RRuleString()

		for j, r := range p.ranges {
			event := cal.AddEvent(fmt.Sprintf("%s-hours-%d-%d@go-mpx", prefix, i, j))
			event.SetDtStampTime(opts.Stamp)
			event.SetSummary("Working time")
			event.SetStartAt(first.Add(time.Duration(r.From) * time.Minute))
			event.SetEndAt(first.Add(time.Duration(r.To) * time.Minute))
			event.AddRrule(rule)
		}
	}

	for i, e := range c.Exceptions() {
		event := cal.AddEvent(fmt.Sprintf("%s-exception-%d@go-mpx", prefix, i))
		event.SetDtStampTime(opts.Stamp)
		event.SetAllDayStartAt(e.From())
		event.SetAllDayEndAt(internal.StartOfDay(carbon.CreateFromStdTime(e.To()).AddDay().StdTime()))
		if !e.Working() {
			event.SetSummary("Non-working")
			continue
		}
		event.SetSummary("Working")
		if ranges := e.Ranges(); len(ranges) > 0 {
			parts := make([]string, len(ranges))
			for k, r := range ranges {
				parts[k] = r.String()
			}
			event.SetDescription(strings.Join(parts, ", "))
		}
	}

	return cal, nil
}
