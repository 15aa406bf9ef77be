package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Xevion/go-mpx/format"
	"github.com/Xevion/go-mpx/internal/config"
)

var (
	cfgFile string
	verbose bool

	cfg     *config.Config
	formats *format.Context
)

var rootCmd = &cobra.Command{
	Use:   "mpxcal",
	Short: "Working-time queries over MPX project calendars",
	Long: `mpxcal reads the calendars of an MPX project file, from disk or
over HTTP, and answers working-time questions about them.

Commands:
  info     - list calendars, working days and exceptions
  between  - count working days between two dates
  add      - find the date a duration away from a start date
  next     - list cron occurrences that fall on working dates
  ics      - export a calendar as iCalendar
  write    - write the calendars back out as MPX`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		ctx, err := loaded.Formats()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		cfg, formats = loaded, ctx

		level := cfg.Level()
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file, YAML or TOML (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
