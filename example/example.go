package main

import (
	"log/slog"
	"os"
	"time"

	mpx "github.com/Xevion/go-mpx"
	"github.com/Xevion/go-mpx/types"
)

func main() {
	project := mpx.NewProject(nil)
	project.Properties.Title = "Office move"

	standard, err := project.AddBaseCalendar(mpx.DefaultCalendarName)
	if err != nil {
		slog.Error("Error creating calendar", "error", err)
		os.Exit(1)
	}

	holidays, err := mpx.NewCalendar("Holidays").
		Holiday("2024-12-25", "2024-12-26", "2025-01-01").
		Build()
	if err != nil {
		slog.Error("Error building calendar", "error", err)
		os.Exit(1)
	}
	for _, e := range holidays.Exceptions() {
		if _, err := standard.AddException(e.From(), e.To(), e.Working()); err != nil {
			slog.Error("Error copying holiday", "error", err)
			os.Exit(1)
		}
	}

	movers := project.AddResource("Movers")
	shift, err := project.AddResourceCalendar(movers, mpx.DefaultCalendarName)
	if err != nil {
		slog.Error("Error creating resource calendar", "error", err)
		os.Exit(1)
	}
	// Movers also work Saturdays, mornings only.
	_ = shift.SetWorkingDay(types.Saturday, types.Working)
	saturday, _ := shift.AddHours(types.Saturday)
	_ = saturday.AddRange(types.DateRange{From: 8 * 60, To: 12 * 60})

	start := time.Date(2024, 12, 20, 0, 0, 0, 0, time.Local)
	for _, cal := range []*mpx.Calendar{standard, shift} {
		finish, err := cal.DateFromDuration(start, mpx.NewDuration(5, types.Days))
		if err != nil {
			slog.Error("Error scheduling", "calendar", cal, "error", err)
			continue
		}
		slog.Info("Five working days", "calendar", cal, "from", start.Format(time.DateOnly), "until", finish.Format(time.DateOnly))
	}

	if err := mpx.Write(os.Stdout, project); err != nil {
		slog.Error("Error writing MPX", "error", err)
		os.Exit(1)
	}
}
