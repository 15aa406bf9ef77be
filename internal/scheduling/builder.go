package scheduling

import (
	"fmt"
)

type DailyScheduleBuilder struct {
	errors   []error
	hashes   map[uint64]bool
	triggers []Trigger

	calendar     WorkingCalendar
	calendarName string
}

func NewSchedule() *DailyScheduleBuilder {
	return &DailyScheduleBuilder{
		hashes: make(map[uint64]bool),
	}
}

// tryAddTrigger adds a trigger to the builder if it is not already present.
// If the trigger is already present, an error will be added to the builder's errors.
// It will return the builder for chaining.
func (b *DailyScheduleBuilder) tryAddTrigger(trigger Trigger) *DailyScheduleBuilder {
	hash := trigger.Hash()
	if _, ok := b.hashes[hash]; ok {
		b.errors = append(b.errors, fmt.Errorf("duplicate trigger: %v", trigger))
		return b
	}

	b.triggers = append(b.triggers, trigger)
	b.hashes[hash] = true

	return b
}

// OnFixedTime adds a trigger for a fixed time each day.
// This will error if the integer values are not in the range 0-23 for the hour and 0-59 for the minute.
func (b *DailyScheduleBuilder) OnFixedTime(hour, minute int) *DailyScheduleBuilder {
	errored := false
	if hour < 0 || hour > 23 {
		b.errors = append(b.errors, fmt.Errorf("hour must be between 0 and 23"))
		errored = true
	}

	if minute < 0 || minute > 59 {
		b.errors = append(b.errors, fmt.Errorf("minute must be between 0 and 59"))
		errored = true
	}

	if errored {
		return b
	}

	return b.tryAddTrigger(&FixedTimeTrigger{
		Hour:   hour,
		Minute: minute,
	})
}

// OnCron adds a trigger for a standard five-field cron expression.
func (b *DailyScheduleBuilder) OnCron(expression string) *DailyScheduleBuilder {
	trigger, err := NewCronTrigger(expression)
	if err != nil {
		b.errors = append(b.errors, err)
		return b
	}
	return b.tryAddTrigger(trigger)
}

// OnlyWorkingDates restricts every trigger to the working dates of calendar.
// name identifies the calendar in hashes and messages.
func (b *DailyScheduleBuilder) OnlyWorkingDates(calendar WorkingCalendar, name string) *DailyScheduleBuilder {
	if calendar == nil {
		b.errors = append(b.errors, fmt.Errorf("no calendar provided"))
		return b
	}
	b.calendar = calendar
	b.calendarName = name
	return b
}

// Build returns a Trigger that will trigger at the configured times.
// It will return an error if any errors occurred during configuration.
func (b *DailyScheduleBuilder) Build() (Trigger, error) {
	// If there are no triggers, add an error.
	if len(b.triggers) == 0 {
		b.errors = append(b.errors, fmt.Errorf("no triggers provided"))
	}

	// If there are errors, return an error.
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("errors occurred: %v", b.errors)
	}

	var trigger Trigger
	if len(b.triggers) == 1 {
		trigger = b.triggers[0]
	} else {
		// Otherwise, combine all the triggers.
		trigger = &CompositeDailySchedule{triggers: b.triggers}
	}

	if b.calendar != nil {
		return NewWorkingDayTrigger(trigger, b.calendar, b.calendarName), nil
	}
	return trigger, nil
}
