package cmd

import (
	"github.com/spf13/cobra"

	mpx "github.com/Xevion/go-mpx"
)

var outFile string

var writeCmd = &cobra.Command{
	Use:   "write FILE",
	Short: "Read an MPX file and write its calendars back out",
	Long: `Re-emits the settings, calendars and resources of FILE. Useful to
normalise a file or to check that it survives a round trip.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if outFile != "" {
			return mpx.WriteFile(outFile, p)
		}
		return mpx.Write(cmd.OutOrStdout(), p)
	},
}

func init() {
	writeCmd.Flags().StringVarP(&outFile, "output", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(writeCmd)
}
