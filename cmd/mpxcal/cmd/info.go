package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	mpx "github.com/Xevion/go-mpx"
	"github.com/Xevion/go-mpx/types"
)

var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "List the calendars and resources of an MPX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Program:  %s\n", p.Properties.Program)
		fmt.Fprintf(out, "Default:  %s\n", p.Properties.DefaultCalendarName)
		fmt.Fprintf(out, "Units:    %s per duration, %g hours/day, %g hours/week\n\n",
			p.Properties.DefaultDurationUnit, p.Properties.HoursPerDay, p.Properties.HoursPerWeek)

		for _, c := range p.BaseCalendars() {
			printCalendar(out, p, c.Name(), c)
		}
		for _, r := range p.Resources() {
			if c := r.Calendar(); c != nil {
				printCalendar(out, p, fmt.Sprintf("%s (resource %d)", r.Name, r.ID), c)
			}
		}
		return p.Validate()
	},
}

func printCalendar(out io.Writer, p *mpx.Project, title string, c *mpx.Calendar) {
	fmt.Fprintf(out, "%s\n", title)
	if base := c.Base(); base != nil {
		fmt.Fprintf(out, "  base: %s\n", base.Name())
	}
	for _, d := range types.Week {
		hours := c.DayHours(d)
		texts := make([]string, 0, len(hours))
		for _, r := range hours {
			texts = append(texts, r.String())
		}
		fmt.Fprintf(out, "  %-9s %-11s %s\n", d, c.WorkingDay(d), strings.Join(texts, " "))
	}
	for _, e := range c.Exceptions() {
		state := "non-working"
		if e.Working() {
			state = "working"
		}
		fmt.Fprintf(out, "  %s - %s %s\n", p.Formats().FormatDate(e.From()), p.Formats().FormatDate(e.To()), state)
	}
	fmt.Fprintln(out)
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
