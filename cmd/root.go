package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lehman-cli/internal/config"
	"github.com/sells-group/lehman-cli/internal/lehman"
	"github.com/sells-group/lehman-cli/internal/report"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lehman",
	Short: "Lehman Formula advisory fee calculator",
	Long:  "Computes tiered M&A advisory fees from EBITDA and a valuation multiple using the Lehman Formula, for a single deal or a whole deal list.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVariant prefers the flag value and falls back to calc.variant.
func resolveVariant(flag string) (lehman.Variant, error) {
	if strings.TrimSpace(flag) == "" {
		flag = cfg.Calc.Variant
	}
	return lehman.ParseVariant(flag)
}

// resolveFormat prefers the flag value and falls back to output.format.
func resolveFormat(flag string) (report.Format, error) {
	if strings.TrimSpace(flag) == "" {
		flag = cfg.Output.Format
	}
	return report.ParseFormat(flag)
}

// resolveOutput picks the format for a command that can write to a file.
// Without --format, an .xlsx output path selects xlsx. Xlsx always needs a
// file.
func resolveOutput(format, output string) (report.Format, error) {
	if strings.TrimSpace(format) == "" && strings.EqualFold(filepath.Ext(output), ".xlsx") {
		return report.XLSX, nil
	}
	f, err := resolveFormat(format)
	if err != nil {
		return "", err
	}
	if f == report.XLSX && output == "" {
		return "", eris.New("xlsx output requires --output")
	}
	return f, nil
}

// writeOutput renders to the output file, or to the command's stdout when
// output is empty.
func writeOutput(cmd *cobra.Command, output string, render func(io.Writer) error) error {
	if output == "" {
		return render(cmd.OutOrStdout())
	}

	f, err := os.Create(output)
	if err != nil {
		return eris.Wrapf(err, "create %s", output)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "close %s", output)
}

// resolveSchedule loads a schedule file, falling back to calc.schedule_file
// and then to the standard schedule.
func resolveSchedule(flag string) (*lehman.Schedule, error) {
	path := flag
	if path == "" {
		path = cfg.Calc.ScheduleFile
	}
	if path == "" {
		return lehman.StandardSchedule(), nil
	}
	s, err := lehman.LoadSchedule(path)
	if err != nil {
		return nil, eris.Wrap(err, "load schedule")
	}
	return s, nil
}
