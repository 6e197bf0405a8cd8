// Package report renders Lehman fee results for people and spreadsheets.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lehman-cli/internal/lehman"
)

// Format selects an output encoding.
type Format string

// Supported formats.
const (
	Table Format = "table"
	JSON  Format = "json"
	CSV   Format = "csv"
	XLSX  Format = "xlsx"
)

// ParseFormat resolves a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Table, JSON, CSV, XLSX:
		return f, nil
	default:
		return "", eris.Errorf("report: unsupported format %q", s)
	}
}

// rangeLabel renders a tier range the way the calculator form shows it:
// "$1M - $2M", or "$4M - ∞" for the top tier.
func rangeLabel(t lehman.FeeTier) string {
	start := "$" + trimFloat(t.RangeStart) + "M"
	if t.Unbounded() {
		return start + " - ∞"
	}
	return start + " - $" + trimFloat(*t.RangeEnd) + "M"
}

func percentLabel(p float64) string {
	return trimFloat(p) + "%"
}

// tierFee converts a tier amount in millions to a formatted currency figure.
func tierFee(t lehman.FeeTier) string {
	return lehman.FormatCurrency(t.Amount * 1_000_000)
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func rangeEnd(t lehman.FeeTier) string {
	if t.Unbounded() {
		return ""
	}
	return trimFloat(*t.RangeEnd)
}

func money(s string) string {
	return fmt.Sprintf("$%s", s)
}
