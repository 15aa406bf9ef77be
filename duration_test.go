package mpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xevion/go-mpx/format"
	"github.com/Xevion/go-mpx/types"
)

func formatsWith(t *testing.T, mutate func(*format.Settings)) *format.Context {
	t.Helper()
	s := format.DefaultSettings()
	mutate(&s)
	ctx, err := format.NewContext(s)
	require.NoError(t, err)
	return ctx
}

func TestParseDuration(t *testing.T) {
	german := formatsWith(t, func(s *format.Settings) {
		s.Locale = "de"
		s.DecimalSeparator = ','
		s.ThousandsSeparator = '.'
	})
	french := formatsWith(t, func(s *format.Settings) { s.Locale = "fr" })

	tests := []struct {
		name     string
		text     string
		ctx      *format.Context
		expected Duration
	}{
		{"days", "5d", nil, NewDuration(5, types.Days)},
		{"fractional weeks", "1.5w", nil, NewDuration(1.5, types.Weeks)},
		{"negative elapsed days", "-3ed", nil, NewDuration(-3, types.ElapsedDays)},
		{"months", "2mo", nil, NewDuration(2, types.Months)},
		{"elapsed months", "2emo", nil, NewDuration(2, types.ElapsedMonths)},
		{"percent", "50%", nil, NewDuration(50, types.Percent)},
		{"no suffix is days", "12", nil, NewDuration(12, types.Days)},
		{"suffix case and spaces", " 4 H ", nil, NewDuration(4, types.Hours)},
		{"german days", "2,5t", german, NewDuration(2.5, types.Days)},
		{"german elapsed", "1fw", german, NewDuration(1, types.ElapsedWeeks)},
		{"french elapsed years", "1ae", french, NewDuration(1, types.ElapsedYears)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDuration(tt.text, tt.ctx)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(d, 1e-9), "expected %v, got %v", tt.expected, d)
		})
	}
}

func TestParseDurationErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"no amount", "d"},
		{"unknown unit", "5x"},
		{"german unit in english", "5t"},
		{"two decimal points", "1.2.3d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDuration(tt.text, nil)
			assert.ErrorIs(t, err, ErrParse)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "duration", perr.Kind)
		})
	}
}

func TestDurationFormat(t *testing.T) {
	german := formatsWith(t, func(s *format.Settings) {
		s.Locale = "de"
		s.DecimalSeparator = ','
		s.ThousandsSeparator = '.'
	})

	tests := []struct {
		name     string
		duration Duration
		ctx      *format.Context
		expected string
	}{
		{"whole days", NewDuration(5, types.Days), nil, "5d"},
		{"three decimals", NewDuration(1.256, types.Weeks), nil, "1.256w"},
		{"trailing zeros dropped", NewDuration(2.5, types.Hours), nil, "2.5h"},
		{"negative elapsed", NewDuration(-3, types.ElapsedDays), nil, "-3ed"},
		{"german", NewDuration(2.5, types.Days), german, "2,5t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.duration.Format(tt.ctx))
		})
	}

	assert.Equal(t, "5d", NewDuration(5, types.Days).String())
}

func TestParseFormatRoundTrip(t *testing.T) {
	for u := types.Minutes; u <= types.ElapsedPercent; u++ {
		d := NewDuration(3.25, u)
		parsed, err := ParseDuration(d.Format(nil), nil)
		require.NoError(t, err, u.String())
		assert.Equal(t, d, parsed)
	}

	german := formatsWith(t, func(s *format.Settings) {
		s.Locale = "de"
		s.DecimalSeparator = ','
		s.ThousandsSeparator = '.'
	})
	for _, amount := range []float64{1.234, -0.125, 1.0 / 3, 1234.5678, 0.0001} {
		for _, ctx := range []*format.Context{nil, german} {
			d := NewDuration(amount, types.Days)
			parsed, err := ParseDuration(d.Format(ctx), ctx)
			require.NoError(t, err, d.Format(ctx))
			assert.True(t, d.Equal(parsed, 1e-9), "%v became %v", d, parsed)
		}
	}
}

func TestConvertUnits(t *testing.T) {
	tests := []struct {
		name     string
		duration Duration
		target   types.TimeUnit
		expected float64
	}{
		{"same unit", NewDuration(3, types.Days), types.Days, 3},
		{"days to hours", NewDuration(2, types.Days), types.Hours, 48},
		{"hours to minutes", NewDuration(1.5, types.Hours), types.Minutes, 90},
		{"weeks to days", NewDuration(2, types.Weeks), types.Days, 14},
		{"months to days", NewDuration(1, types.Months), types.Days, 28},
		{"years to weeks", NewDuration(1, types.Years), types.Weeks, 365.0 / 7},
		{"elapsed uses working ratios", NewDuration(1, types.ElapsedDays), types.ElapsedHours, 24},
		{"elapsed to working", NewDuration(7, types.ElapsedDays), types.Weeks, 1},
		{"minutes to days", NewDuration(720, types.Minutes), types.Days, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.duration.ConvertUnits(tt.target)
			assert.Equal(t, tt.target, got.Unit)
			assert.InDelta(t, tt.expected, got.Amount, 1e-9)
		})
	}

	t.Run("chains return to the start", func(t *testing.T) {
		d := NewDuration(3, types.Weeks)
		back := d.ConvertUnits(types.Minutes).ConvertUnits(types.Hours).ConvertUnits(types.Years).ConvertUnits(types.Weeks)
		assert.True(t, d.Equal(back, 1e-9))
	})
}

func TestDurationHelpers(t *testing.T) {
	assert.True(t, ZeroDays.IsZero())
	assert.False(t, NewDuration(1, types.Days).IsZero())
	assert.Equal(t, NewDuration(-2, types.Hours), NewDuration(2, types.Hours).Negate())
	assert.False(t, NewDuration(1, types.Days).Equal(NewDuration(1, types.ElapsedDays), 0))
}
