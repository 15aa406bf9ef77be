package mpx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xevion/go-mpx/types"
)

func TestCalendarBuilder(t *testing.T) {
	c, err := NewCalendar("Office").
		In(time.UTC).
		WorkingDays(types.Monday, types.Tuesday, types.Wednesday, types.Thursday).
		Hours(types.Monday, "09:00-12:00", "13:00-18:00").
		Hours(types.Thursday, "16:00-00:00").
		Holiday("2024-12-25", "2024-12-26").
		Exception("2024-12-28", "2024-12-28", true, "10:00-14:00").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "Office", c.Name())
	assert.False(t, c.IsWorkingDay(types.Friday))
	assert.Equal(t, 480, c.WorkingMinutes(day(2024, 12, 2)))
	assert.Equal(t, 480, c.WorkingMinutes(day(2024, 12, 5)))
	assert.Equal(t, 480, c.WorkingMinutes(day(2024, 12, 3)))
	assert.False(t, c.IsWorkingDate(day(2024, 12, 25)))
	assert.Equal(t, 240, c.WorkingMinutes(day(2024, 12, 28)))
	assert.Len(t, c.Exceptions(), 3)
}

func TestCalendarBuilderDerived(t *testing.T) {
	base, err := NewCalendar("Standard").Build()
	require.NoError(t, err)

	c, err := DerivedFrom(base).Day(types.Saturday, types.Working).Build()
	require.NoError(t, err)
	assert.Equal(t, base, c.Base())
	assert.True(t, c.IsWorkingDay(types.Saturday))
	assert.True(t, c.IsWorkingDay(types.Monday))
	assert.Equal(t, types.Default, c.WorkingDay(types.Monday))

	_, err = DerivedFrom(nil).Build()
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestCalendarBuilderErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *CalendarBuilder
		err     error
	}{
		{"range without dash", NewCalendar("x").Hours(types.Monday, "08:00"), ErrInvalidArgs},
		{"bad clock", NewCalendar("x").Hours(types.Monday, "8h-12h"), ErrInvalidArgs},
		{"range ends first", NewCalendar("x").Hours(types.Monday, "12:00-08:00"), ErrInvalidRange},
		{"overlap", NewCalendar("x").Hours(types.Monday, "08:00-12:00", "11:00-13:00"), ErrInvalidArgs},
		{"too many ranges", NewCalendar("x").Hours(types.Monday, "06:00-07:00", "08:00-09:00", "10:00-11:00", "12:00-13:00"), ErrLimitExceeded},
		{"hours twice", NewCalendar("x").Hours(types.Monday, "08:00-12:00").Hours(types.Monday, "13:00-17:00"), ErrLimitExceeded},
		{"default on base", NewCalendar("x").Day(types.Monday, types.Default), ErrInvalidReference},
		{"invalid working day", NewCalendar("x").WorkingDays(types.Day(0)), ErrInvalidArgs},
		{"exception ends first", NewCalendar("x").Exception("2024-01-02", "2024-01-01", false), ErrInvalidRange},
		{"hours on a holiday", NewCalendar("x").Exception("2024-01-01", "2024-01-01", false, "08:00-12:00"), ErrInvalidArgs},
		{"nil location", NewCalendar("x").In(nil), ErrInvalidArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.builder.Build()
			assert.Nil(t, c)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("bad date", func(t *testing.T) {
		_, err := NewCalendar("x").Holiday("not a date").Build()
		assert.Error(t, err)
	})

	t.Run("every error is kept", func(t *testing.T) {
		_, err := NewCalendar("x").
			Hours(types.Monday, "08:00").
			Day(types.Tuesday, types.Default).
			Build()
		assert.ErrorIs(t, err, ErrInvalidArgs)
		assert.ErrorIs(t, err, ErrInvalidReference)
	})
}
