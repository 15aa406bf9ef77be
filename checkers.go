package mpx

import (
	"fmt"

	"github.com/Xevion/go-mpx/types"
)

// ConditionCheck is the outcome of one structural check on a calendar.
type ConditionCheck struct {
	fail bool
	err  error
}

// Failed reports whether the check found a problem.
func (cc ConditionCheck) Failed() bool { return cc.fail }

// Err returns the problem found, or nil.
func (cc ConditionCheck) Err() error { return cc.err }

func failed(err error) ConditionCheck {
	return ConditionCheck{fail: true, err: err}
}

// CheckDefaultDays fails when a day defers to a base calendar that is not there.
func CheckDefaultDays(c *Calendar) ConditionCheck {
	cc := ConditionCheck{fail: false}
	if c.base != nil {
		return cc
	}
	for _, d := range types.Week {
		if c.days[d.Index()] == types.Default {
			return failed(fmt.Errorf("%w: %s is default but there is no base calendar", ErrInvalidReference, d))
		}
	}
	return cc
}

// CheckHours fails when an hours entry is filed under the wrong day or holds
// more ranges than a record can carry.
func CheckHours(c *Calendar) ConditionCheck {
	cc := ConditionCheck{fail: false}
	for _, d := range types.Week {
		h := c.hours[d.Index()]
		if h == nil {
			continue
		}
		if h.day != d {
			return failed(fmt.Errorf("%w: hours for %s filed under %s", ErrInvalidArgs, h.day, d))
		}
		if len(h.ranges) > MaxRangesPerDay {
			return failed(fmt.Errorf("%w: %s has %d ranges", ErrLimitExceeded, d, len(h.ranges)))
		}
	}
	return cc
}

// CheckExceptions fails when the calendar holds more exceptions than the
// format allows.
func CheckExceptions(c *Calendar) ConditionCheck {
	cc := ConditionCheck{fail: false}
	if n := len(c.exceptions.items); n > MaxExceptions {
		cc = failed(fmt.Errorf("%w: %d exceptions", ErrLimitExceeded, n))
	}
	return cc
}

// CheckBaseRegistered fails when c derives from a calendar p does not own.
func CheckBaseRegistered(p *Project, c *Calendar) ConditionCheck {
	cc := ConditionCheck{fail: false}
	if c.base == nil {
		return cc
	}
	for _, owned := range p.calendars {
		if owned == c.base {
			return cc
		}
	}
	return failed(fmt.Errorf("%w: base %q is not part of the project", ErrInvalidReference, c.base.label()))
}
