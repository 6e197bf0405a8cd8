package main

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lehman-cli/internal/report"
)

var (
	scheduleVariant string
	scheduleFile    string
	scheduleFormat  string
	scheduleOutput  string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print the fee tiers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		variant, err := resolveVariant(scheduleVariant)
		if err != nil {
			return eris.Wrap(err, "schedule")
		}
		format, err := resolveOutput(scheduleFormat, scheduleOutput)
		if err != nil {
			return eris.Wrap(err, "schedule")
		}
		sched, err := resolveSchedule(scheduleFile)
		if err != nil {
			return eris.Wrap(err, "schedule")
		}

		err = writeOutput(cmd, scheduleOutput, func(w io.Writer) error {
			return report.WriteSchedule(w, sched, variant, format)
		})
		return eris.Wrap(err, "schedule: write")
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleVariant, "variant", "", "single or double (default from calc.variant)")
	scheduleCmd.Flags().StringVar(&scheduleFile, "schedule", "", "YAML fee schedule (default: standard Lehman tiers)")
	scheduleCmd.Flags().StringVar(&scheduleFormat, "format", "", "table, json, csv or xlsx (default from output.format)")
	scheduleCmd.Flags().StringVar(&scheduleOutput, "output", "", "write the tiers to this file instead of stdout")
	rootCmd.AddCommand(scheduleCmd)
}
