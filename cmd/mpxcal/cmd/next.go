package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Xevion/go-mpx/internal/scheduling"
)

var (
	cronExpr string
	atTime   string
	count    int
	from     string
)

var nextCmd = &cobra.Command{
	Use:   "next FILE",
	Short: "List upcoming occurrences of a schedule that fall on working dates",
	Example: `  mpxcal next plan.mpx --cron "0 9 * * *" -n 5
  mpxcal next plan.mpx --at 17:30 --from 2024-12-20`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := loadCalendar(cmd, args[0])
		if err != nil {
			return err
		}

		builder := scheduling.NewSchedule()
		if cronExpr != "" {
			builder.OnCron(cronExpr)
		}
		if atTime != "" {
			var hour, minute int
			if _, err := fmt.Sscanf(atTime, "%d:%d", &hour, &minute); err != nil {
				return fmt.Errorf("--at %q: expected HH:MM", atTime)
			}
			builder.OnFixedTime(hour, minute)
		}
		trigger, err := builder.OnlyWorkingDates(c, c.String()).Build()
		if err != nil {
			return err
		}

		now := time.Now().In(formats.Settings().Location)
		if from != "" {
			if now, err = parseDate(from); err != nil {
				return fmt.Errorf("--from: %w", err)
			}
		}

		for _, t := range scheduling.Upcoming(trigger, now, count) {
			fmt.Fprintln(cmd.OutOrStdout(), formats.FormatDateTime(t))
		}
		return nil
	},
}

func init() {
	addCalendarFlags(nextCmd)
	nextCmd.Flags().StringVar(&cronExpr, "cron", "", "five-field cron expression")
	nextCmd.Flags().StringVar(&atTime, "at", "", "fixed time of day, HH:MM")
	nextCmd.Flags().IntVarP(&count, "count", "n", 5, "number of occurrences")
	nextCmd.Flags().StringVar(&from, "from", "", "start searching from this date instead of now")
	nextCmd.MarkFlagsOneRequired("cron", "at")
	rootCmd.AddCommand(nextCmd)
}
