package main

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lehman-cli/internal/deals"
	"github.com/sells-group/lehman-cli/internal/report"
)

var (
	calcEBITDA   string
	calcMultiple string
	calcVariant  string
	calcSchedule string
	calcFormat   string
	calcOutput   string
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate the advisory fee for one deal",
	Long:  "Validates EBITDA and multiple (both in millions), computes TEV and walks it through the fee tiers.",
	Example: `  lehman calc --ebitda 3 --multiple 5
  lehman calc --ebitda 3 --multiple 5 --variant double --format json
  lehman calc --ebitda 3 --multiple 5 --output fee.xlsx`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		variant, err := resolveVariant(calcVariant)
		if err != nil {
			return eris.Wrap(err, "calc")
		}
		format, err := resolveOutput(calcFormat, calcOutput)
		if err != nil {
			return eris.Wrap(err, "calc")
		}
		sched, err := resolveSchedule(calcSchedule)
		if err != nil {
			return eris.Wrap(err, "calc")
		}

		out := deals.NewProcessor(sched, variant, 1).Evaluate(deals.Row{
			EBITDA:   calcEBITDA,
			Multiple: calcMultiple,
		})
		if !out.OK() {
			return eris.Errorf("calc: %s", out.ErrorText())
		}

		zap.L().Debug("calc: fee computed",
			zap.String("schedule", sched.Name()),
			zap.Int("tiers", sched.Len()),
			zap.String("variant", string(variant)),
			zap.Float64("tev", out.Result.TEV),
			zap.Float64("fee", out.Result.Fee),
		)

		return writeOutput(cmd, calcOutput, func(w io.Writer) error {
			return report.WriteResult(w, out.Result, format)
		})
	},
}

func init() {
	calcCmd.Flags().StringVar(&calcEBITDA, "ebitda", "", "EBITDA in millions")
	calcCmd.Flags().StringVar(&calcMultiple, "multiple", "", "valuation multiple")
	calcCmd.Flags().StringVar(&calcVariant, "variant", "", "single or double (default from calc.variant)")
	calcCmd.Flags().StringVar(&calcSchedule, "schedule", "", "YAML fee schedule (default: standard Lehman tiers)")
	calcCmd.Flags().StringVar(&calcFormat, "format", "", "table, json, csv or xlsx (default from output.format)")
	calcCmd.Flags().StringVar(&calcOutput, "output", "", "write the result to this file instead of stdout")
	rootCmd.AddCommand(calcCmd)
}
