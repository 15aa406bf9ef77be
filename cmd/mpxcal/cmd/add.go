package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mpx "github.com/Xevion/go-mpx"
)

var addCmd = &cobra.Command{
	Use:   "add FILE START DURATION",
	Short: "Find the date DURATION of working time from START",
	Long: `Walks the calendar from START, counting START as the first day, until
DURATION of working days is used up. Negative durations walk backwards.
Elapsed units such as "3ed" ignore the calendar.`,
	Example: `  mpxcal add plan.mpx 2024-01-01 5d
  mpxcal add plan.mpx 2024-01-10 -- -3d`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, c, err := loadCalendar(cmd, args[0])
		if err != nil {
			return err
		}
		start, err := parseDate(args[1])
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		d, err := mpx.ParseDuration(args[2], p.Formats())
		if err != nil {
			return err
		}

		date, err := c.DateFromDuration(start, d)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p.Formats().FormatDate(date))
		return nil
	},
}

func init() {
	addCalendarFlags(addCmd)
	rootCmd.AddCommand(addCmd)
}
