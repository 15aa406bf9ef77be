package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Xevion/go-mpx/internal/ics"
)

var icsStart string

var icsCmd = &cobra.Command{
	Use:   "ics FILE",
	Short: "Export a calendar's working time as iCalendar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := loadCalendar(cmd, args[0])
		if err != nil {
			return err
		}

		opts := ics.Options{Stamp: time.Now().UTC()}
		if icsStart != "" {
			if opts.Start, err = parseDate(icsStart); err != nil {
				return err
			}
		}
		if resourceName != "" {
			opts.Name = resourceName
		}

		cal, err := ics.Export(c, opts)
		if err != nil {
			return err
		}
		return cal.SerializeTo(cmd.OutOrStdout())
	},
}

func init() {
	addCalendarFlags(icsCmd)
	icsCmd.Flags().StringVar(&icsStart, "start", "", "first week of the recurring hours (default: today)")
	rootCmd.AddCommand(icsCmd)
}
