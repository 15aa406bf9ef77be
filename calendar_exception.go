package mpx

import (
	"fmt"
	"time"

	"github.com/Workiva/go-datastructures/augmentedtree"

	"github.com/Xevion/go-mpx/internal"
	"github.com/Xevion/go-mpx/types"
)

// MaxExceptions is the number of exception records an MPX calendar may hold.
const MaxExceptions = 250

// CalendarException overrides the weekly pattern for a span of whole days.
type CalendarException struct {
	from    time.Time
	to      time.Time
	working bool
	ranges  []types.DateRange
	seq     uint64
}

// NewCalendarException covers every day from the day of from to the day of
// to, inclusive.
func NewCalendarException(from, to time.Time, working bool) (*CalendarException, error) {
	start := internal.StartOfDay(from)
	end := internal.EndOfDay(to)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: exception %s to %s", ErrInvalidRange, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	return &CalendarException{from: start, to: end, working: working}, nil
}

// From is the start of the first day covered.
func (e *CalendarException) From() time.Time { return e.from }

// To is the last instant of the last day covered.
func (e *CalendarException) To() time.Time { return e.to }

func (e *CalendarException) Working() bool { return e.working }

// Contains reports whether t falls on one of the covered days.
func (e *CalendarException) Contains(t time.Time) bool {
	return !t.Before(e.from) && !t.After(e.to)
}

// AddRange records working hours for the exception's days. Only meaningful
// on working exceptions.
func (e *CalendarException) AddRange(r types.DateRange) error {
	if !e.working {
		return fmt.Errorf("%w: non-working exception cannot hold hours", ErrInvalidArgs)
	}
	ranges, err := appendRange(e.ranges, r)
	if err != nil {
		return fmt.Errorf("exception %s: %w", e, err)
	}
	e.ranges = ranges
	return nil
}

// Ranges returns a copy of the exception's working periods.
func (e *CalendarException) Ranges() []types.DateRange {
	return append([]types.DateRange(nil), e.ranges...)
}

func (e *CalendarException) String() string {
	status := "non-working"
	if e.working {
		status = "working"
	}
	return fmt.Sprintf("%s..%s %s", e.from.Format(time.DateOnly), e.to.Format(time.DateOnly), status)
}

func (e *CalendarException) LowAtDimension(uint64) int64  { return e.from.Unix() }
func (e *CalendarException) HighAtDimension(uint64) int64 { return e.to.Unix() }
func (e *CalendarException) ID() uint64                   { return e.seq }

func (e *CalendarException) OverlapsAtDimension(i augmentedtree.Interval, d uint64) bool {
	return e.HighAtDimension(d) >= i.LowAtDimension(d) && e.LowAtDimension(d) <= i.HighAtDimension(d)
}

// instant is a zero-length query interval.
type instant int64

func (i instant) LowAtDimension(uint64) int64  { return int64(i) }
func (i instant) HighAtDimension(uint64) int64 { return int64(i) }
func (i instant) ID() uint64                   { return 0 }

func (i instant) OverlapsAtDimension(o augmentedtree.Interval, d uint64) bool {
	return int64(i) >= o.LowAtDimension(d) && int64(i) <= o.HighAtDimension(d)
}

// exceptionList keeps exceptions in insertion order, with an interval tree
// over their spans for date lookups.
type exceptionList struct {
	items []*CalendarException
	tree  augmentedtree.Tree
	next  uint64
}

func (l *exceptionList) add(e *CalendarException) error {
	if len(l.items) >= MaxExceptions {
		return fmt.Errorf("%w: at most %d exceptions per calendar", ErrLimitExceeded, MaxExceptions)
	}
	if e.seq != 0 {
		return fmt.Errorf("%w: exception %s already belongs to a calendar", ErrInvalidArgs, e)
	}
	if l.tree == nil {
		l.tree = augmentedtree.New(1)
	}
	l.next++
	e.seq = l.next
	l.items = append(l.items, e)
	l.tree.Add(e)
	return nil
}

func (l *exceptionList) remove(e *CalendarException) bool {
	for i, item := range l.items {
		if item == e {
			l.items = append(l.items[:i], l.items[i+1:]...)
			l.tree.Delete(e)
			e.seq = 0
			return true
		}
	}
	return false
}

// find returns the earliest added exception containing t.
func (l *exceptionList) find(t time.Time) *CalendarException {
	if len(l.items) == 0 {
		return nil
	}
	candidates := l.tree.Query(instant(t.Unix()))
	defer candidates.Dispose()

	var first *CalendarException
	for _, c := range candidates {
		e := c.(*CalendarException)
		if e.Contains(t) && (first == nil || e.seq < first.seq) {
			first = e
		}
	}
	return first
}

func (l *exceptionList) all() []*CalendarException {
	return append([]*CalendarException(nil), l.items...)
}
