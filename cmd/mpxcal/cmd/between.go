package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var betweenCmd = &cobra.Command{
	Use:   "between FILE START END",
	Short: "Count the working days from START to END, inclusive",
	Example: `  mpxcal between plan.mpx 2024-01-01 2024-01-31
  mpxcal between plan.mpx -r Alice 2024-01-01 2024-01-31`,
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
		end, err := parseDate(args[2])
		if err != nil {
			return fmt.Errorf("end: %w", err)
		}

		d, err := c.DurationBetween(start, end)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), d.Format(p.Formats()))
		return nil
	},
}

func init() {
	addCalendarFlags(betweenCmd)
	rootCmd.AddCommand(betweenCmd)
}
