package main

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lehman-cli/internal/deals"
	"github.com/sells-group/lehman-cli/internal/report"
)

var (
	batchInput       string
	batchSheet       string
	batchEncoding    string
	batchOutput      string
	batchFormat      string
	batchVariant     string
	batchSchedule    string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Calculate fees for every deal in a CSV or XLSX file",
	Long: "Reads a deal list with ebitda and multiple columns (plus optional name and variant) " +
		"and writes one output row per input row, with either the fee or the validation errors.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		variant, err := resolveVariant(batchVariant)
		if err != nil {
			return eris.Wrap(err, "batch")
		}
		format, err := resolveOutput(batchFormat, batchOutput)
		if err != nil {
			return eris.Wrap(err, "batch")
		}
		sched, err := resolveSchedule(batchSchedule)
		if err != nil {
			return eris.Wrap(err, "batch")
		}

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.Concurrency
		}

		log := zap.L().With(
			zap.String("run_id", uuid.New().String()),
			zap.String("input", batchInput),
		)

		rows, err := deals.ReadFile(batchInput, deals.ReadOptions{
			Encoding: batchEncoding,
			Sheet:    batchSheet,
		})
		if err != nil {
			return eris.Wrap(err, "batch: read deals")
		}
		log.Info("batch: deals loaded",
			zap.Int("rows", len(rows)),
			zap.String("schedule", sched.Name()),
			zap.Int("tiers", sched.Len()),
			zap.Int("concurrency", concurrency),
		)

		outs, err := deals.NewProcessor(sched, variant, concurrency).Process(ctx, rows)
		if err != nil {
			return eris.Wrap(err, "batch")
		}

		err = writeOutput(cmd, batchOutput, func(w io.Writer) error {
			return report.WriteOutcomes(w, outs, format)
		})
		if err != nil {
			return eris.Wrap(err, "batch: write report")
		}

		s := report.Summarize(outs)
		log.Info("batch: complete",
			zap.Int("succeeded", s.Succeeded),
			zap.Int("failed", s.Failed),
			zap.Float64("total_fee", s.TotalFee),
			zap.String("output", batchOutput),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "deal list, .csv or .xlsx (required)")
	batchCmd.Flags().StringVar(&batchSheet, "sheet", "", "worksheet name for xlsx input (default: first sheet)")
	batchCmd.Flags().StringVar(&batchEncoding, "encoding", "", "character encoding of csv input, e.g. windows-1252")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write the report to this file instead of stdout")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "table, json, csv or xlsx (default from output.format)")
	batchCmd.Flags().StringVar(&batchVariant, "variant", "", "variant for rows without one (default from calc.variant)")
	batchCmd.Flags().StringVar(&batchSchedule, "schedule", "", "YAML fee schedule (default: standard Lehman tiers)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "rows evaluated in parallel (default from batch.concurrency)")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}
