package mpx

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/Xevion/go-mpx/format"
	"github.com/Xevion/go-mpx/types"
)

// Duration is an amount of time in a given unit. Negative amounts are
// offsets before a reference date.
type Duration struct {
	Amount float64
	Unit   types.TimeUnit
}

// ZeroDays is the duration used when a lag or offset is absent.
var ZeroDays = Duration{Amount: 0, Unit: types.Days}

// daysPerUnit holds the fixed ratios used by ConvertUnits. Elapsed units
// share the ratio of their working counterpart; percent has no length and
// passes through unchanged.
var daysPerUnit = [...]float64{
	types.Minutes: 1.0 / 1440,
	types.Hours:   1.0 / 24,
	types.Days:    1,
	types.Weeks:   7,
	types.Months:  28,
	types.Years:   365,
	types.Percent: 1,
}

func NewDuration(amount float64, unit types.TimeUnit) Duration {
	return Duration{Amount: amount, Unit: unit}
}

// ParseDuration parses "<number><suffix>" text such as "5d", "1.5w" or
// "-3ed". The suffix is the run of non-digit characters ending the text and
// is resolved through the context's locale. Text with no suffix is in days,
// which is how MPX 3 files write durations.
func ParseDuration(text string, ctx *format.Context) (Duration, error) {
	if ctx == nil {
		ctx = format.Default()
	}

	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	split := len(runes)
	for split > 0 && !unicode.IsDigit(runes[split-1]) {
		split--
	}
	if split == 0 {
		return Duration{}, newParseError("duration", text, fmt.Errorf("no amount"))
	}

	amount, err := ctx.ParseDurationAmount(string(runes[:split]))
	if err != nil {
		return Duration{}, newParseError("duration", text, err)
	}

	unit := types.Days
	if suffix := strings.TrimSpace(string(runes[split:])); suffix != "" {
		var ok bool
		unit, ok = ctx.Locale().ParseUnit(suffix)
		if !ok {
			return Duration{}, newParseError("duration", text, fmt.Errorf("unknown time unit %q for locale %s", suffix, ctx.Locale().Code))
		}
	}

	return Duration{Amount: amount, Unit: unit}, nil
}

// ConvertUnits returns the duration expressed in target units.
//
// The conversion is approximate: it goes through days using fixed ratios
// (1440 minutes, 24 hours, 1/7 week, 1/28 month, 1/365 year per day) and
// knows nothing about any calendar's working time. It is meant for
// normalising units in reports; calendar arithmetic counts whole days instead.
func (d Duration) ConvertUnits(target types.TimeUnit) Duration {
	if d.Unit == target {
		return d
	}
	days := d.Amount * daysPerUnit[d.Unit.Working()]
	return Duration{Amount: days / daysPerUnit[target.Working()], Unit: target}
}

// Format writes the amount with the context's duration format followed by
// the locale suffix for the unit.
func (d Duration) Format(ctx *format.Context) string {
	if ctx == nil {
		ctx = format.Default()
	}
	return ctx.FormatDurationAmount(d.Amount) + ctx.Locale().UnitSuffix(d.Unit)
}

func (d Duration) String() string {
	return d.Format(nil)
}

func (d Duration) IsZero() bool {
	return d.Amount == 0
}

// Negate returns the same span in the opposite direction.
func (d Duration) Negate() Duration {
	return Duration{Amount: -d.Amount, Unit: d.Unit}
}

// Equal reports whether both durations have the same unit and amounts
// within epsilon of each other.
func (d Duration) Equal(o Duration, epsilon float64) bool {
	return d.Unit == o.Unit && math.Abs(d.Amount-o.Amount) <= epsilon
}
