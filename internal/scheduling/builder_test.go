package scheduling

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchedule(t *testing.T) {
	builder := NewSchedule()
	assert.NotNil(t, builder)
	assert.Empty(t, builder.errors)
	assert.Empty(t, builder.triggers)
	assert.NotNil(t, builder.hashes)
}

func TestDailyScheduleBuilder_OnFixedTime(t *testing.T) {
	tests := []struct {
		name        string
		hour        int
		minute      int
		expectError bool
	}{
		{name: "valid time", hour: 12, minute: 30},
		{name: "midnight", hour: 0, minute: 0},
		{name: "invalid hour negative", hour: -1, minute: 30, expectError: true},
		{name: "invalid hour too high", hour: 24, minute: 30, expectError: true},
		{name: "invalid minute negative", hour: 12, minute: -1, expectError: true},
		{name: "invalid minute too high", hour: 12, minute: 60, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewSchedule()
			result := builder.OnFixedTime(tt.hour, tt.minute)

			assert.Equal(t, builder, result) // Should return self for chaining

			if tt.expectError {
				assert.Len(t, builder.errors, 1)
			} else {
				assert.Empty(t, builder.errors)
				assert.Len(t, builder.triggers, 1)
			}
		})
	}
}

func TestDailyScheduleBuilder_OnCron(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		expectError bool
	}{
		{name: "weekday mornings", expression: "0 8 * * 1-5"},
		{name: "quarter hours", expression: "*/15 * * * *"},
		{name: "garbage", expression: "every day", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewSchedule()
			builder.OnCron(tt.expression)

			if tt.expectError {
				assert.Len(t, builder.errors, 1)
				assert.Empty(t, builder.triggers)
			} else {
				assert.Empty(t, builder.errors)
				assert.Len(t, builder.triggers, 1)
			}
		})
	}
}

func TestDailyScheduleBuilder_DuplicateTriggers(t *testing.T) {
	builder := NewSchedule()

	builder.OnFixedTime(12, 30)
	builder.OnFixedTime(12, 30)
	builder.OnCron("0 9 * * *")
	builder.OnCron("0 9 * * *")

	assert.Len(t, builder.errors, 2)
	assert.Len(t, builder.triggers, 2)
	assert.Contains(t, builder.errors[0].Error(), "duplicate trigger")
}

func TestDailyScheduleBuilder_Build_Success(t *testing.T) {
	tests := []struct {
		name         string
		setupBuilder func(*DailyScheduleBuilder)
		expectedType string
	}{
		{
			name: "single fixed time trigger",
			setupBuilder: func(b *DailyScheduleBuilder) {
				b.OnFixedTime(12, 30)
			},
			expectedType: "*scheduling.FixedTimeTrigger",
		},
		{
			name: "single cron trigger",
			setupBuilder: func(b *DailyScheduleBuilder) {
				b.OnCron("0 8 * * *")
			},
			expectedType: "*scheduling.CronTrigger",
		},
		{
			name: "multiple triggers",
			setupBuilder: func(b *DailyScheduleBuilder) {
				b.OnFixedTime(8, 0).OnFixedTime(12, 0).OnCron("0 17 * * *")
			},
			expectedType: "*scheduling.CompositeDailySchedule",
		},
		{
			name: "restricted to working dates",
			setupBuilder: func(b *DailyScheduleBuilder) {
				b.OnFixedTime(8, 0).OnlyWorkingDates(onlyDate("2024-01-11"), "Standard")
			},
			expectedType: "*scheduling.WorkingDayTrigger",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewSchedule()
			tt.setupBuilder(builder)

			trigger, err := builder.Build()

			require.NoError(t, err)
			require.NotNil(t, trigger)
			assert.Equal(t, tt.expectedType, fmt.Sprintf("%T", trigger))

			now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
			assert.NotNil(t, trigger.NextTime(now))
		})
	}
}

func TestDailyScheduleBuilder_Build_Errors(t *testing.T) {
	tests := []struct {
		name         string
		setupBuilder func(*DailyScheduleBuilder)
	}{
		{
			name:         "no triggers",
			setupBuilder: func(b *DailyScheduleBuilder) {},
		},
		{
			name: "invalid hour",
			setupBuilder: func(b *DailyScheduleBuilder) {
				b.OnFixedTime(25, 0)
			},
		},
		{
			name: "invalid cron",
			setupBuilder: func(b *DailyScheduleBuilder) {
				b.OnCron("0 9 * *")
			},
		},
		{
			name: "nil calendar",
			setupBuilder: func(b *DailyScheduleBuilder) {
				b.OnFixedTime(9, 0).OnlyWorkingDates(nil, "missing")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewSchedule()
			tt.setupBuilder(builder)

			trigger, err := builder.Build()
			assert.Error(t, err)
			assert.Nil(t, trigger)
		})
	}
}

func TestDailyScheduleBuilder_NextTime_Integration(t *testing.T) {
	trigger, err := NewSchedule().
		OnFixedTime(8, 0).
		OnFixedTime(12, 0).
		OnFixedTime(18, 0).
		Build()
	require.NoError(t, err)

	tests := []struct {
		name     string
		now      time.Time
		expected time.Time
	}{
		{
			name:     "before all triggers",
			now:      time.Date(2024, 1, 10, 6, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			name:     "between triggers",
			now:      time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "after all triggers",
			now:      time.Date(2024, 1, 10, 20, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 11, 8, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := trigger.NextTime(tt.now)
			require.NotNil(t, result)
			assert.True(t, tt.expected.Equal(*result), "expected %v, got %v", tt.expected, *result)
		})
	}
}
