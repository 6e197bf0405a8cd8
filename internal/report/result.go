package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/lehman-cli/internal/lehman"
)

// tierRecord is the flat CSV form of one breakdown row.
type tierRecord struct {
	Tier       int     `csv:"tier"`
	RangeStart float64 `csv:"range_start"`
	RangeEnd   string  `csv:"range_end"`
	Percentage float64 `csv:"percentage"`
	Amount     float64 `csv:"amount"`
	Fee        string  `csv:"fee"`
}

// WriteResult renders a single calculation.
func WriteResult(w io.Writer, res *lehman.CalculationResult, f Format) error {
	switch f {
	case Table:
		return writeResultTable(w, res)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(res), "report: encode json")
	case CSV:
		return writeResultCSV(w, res)
	case XLSX:
		return writeResultXLSX(w, res)
	default:
		return eris.Errorf("report: unsupported format %q", f)
	}
}

func writeResultTable(w io.Writer, res *lehman.CalculationResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total Enterprise Value\t$%sM\n", res.FormattedTEV)
	fmt.Fprintf(tw, "Your Fee (%s)\t$%s\n", res.Variant.Label(), res.FormattedFee)
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "report: write summary")
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return eris.Wrap(err, "report: write summary")
	}
	return writeBreakdownTable(w, res.Breakdown)
}

func writeBreakdownTable(w io.Writer, tiers []lehman.FeeTier) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIER\tRANGE\tRATE\tFEE")
	for _, t := range tiers {
		fmt.Fprintf(tw, "Tier %d\t%s\t%s\t%s\n", t.Tier, rangeLabel(t), percentLabel(t.Percentage), money(tierFee(t)))
	}
	return eris.Wrap(tw.Flush(), "report: write breakdown")
}

// scheduleDoc is the JSON form of a schedule. Specs is the raw table as a
// schedule file would declare it; Tiers applies the variant multiplier.
type scheduleDoc struct {
	Name    string            `json:"name"`
	Variant lehman.Variant    `json:"variant"`
	Specs   []lehman.TierSpec `json:"specs"`
	Tiers   []lehman.FeeTier  `json:"tiers"`
}

// WriteSchedule renders the tiers of s for variant v, without amounts.
func WriteSchedule(w io.Writer, s *lehman.Schedule, v lehman.Variant, f Format) error {
	tiers := s.Tiers(v)
	switch f {
	case Table:
		return writeScheduleTable(w, s, v, tiers)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		doc := scheduleDoc{Name: s.Name(), Variant: v, Specs: s.Specs(), Tiers: tiers}
		return eris.Wrap(enc.Encode(doc), "report: encode json")
	case CSV:
		records := make([]tierRecord, len(tiers))
		for i, t := range tiers {
			records[i] = tierRecord{
				Tier:       t.Tier,
				RangeStart: t.RangeStart,
				RangeEnd:   rangeEnd(t),
				Percentage: t.Percentage,
			}
		}
		return writeTierCSV(w, records)
	case XLSX:
		return writeScheduleXLSX(w, s, v, tiers)
	default:
		return eris.Errorf("report: unsupported format %q", f)
	}
}

func writeScheduleTable(w io.Writer, s *lehman.Schedule, v lehman.Variant, tiers []lehman.FeeTier) error {
	if _, err := fmt.Fprintf(w, "%s schedule, %s, %d tiers\n\n", s.Name(), v.Label(), s.Len()); err != nil {
		return eris.Wrap(err, "report: write schedule header")
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIER\tRANGE\tRATE")
	for _, t := range tiers {
		fmt.Fprintf(tw, "Tier %d\t%s\t%s\n", t.Tier, rangeLabel(t), percentLabel(t.Percentage))
	}
	return eris.Wrap(tw.Flush(), "report: write schedule")
}

func writeScheduleXLSX(w io.Writer, s *lehman.Schedule, v lehman.Variant, tiers []lehman.FeeTier) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Schedule")
	if err != nil {
		return eris.Wrap(err, "report: add schedule sheet")
	}
	addRow(sheet, "Schedule", s.Name())
	addRow(sheet, "Variant", v.Label())
	addRow(sheet, "Tier", "Range", "Rate (%)")
	for _, t := range tiers {
		row := sheet.AddRow()
		row.AddCell().SetInt(t.Tier)
		row.AddCell().SetString(rangeLabel(t))
		row.AddCell().SetFloat(t.Percentage)
	}
	return eris.Wrap(f.Write(w), "report: write xlsx")
}

func writeResultCSV(w io.Writer, res *lehman.CalculationResult) error {
	records := make([]tierRecord, len(res.Breakdown))
	for i, t := range res.Breakdown {
		records[i] = tierRecord{
			Tier:       t.Tier,
			RangeStart: t.RangeStart,
			RangeEnd:   rangeEnd(t),
			Percentage: t.Percentage,
			Amount:     t.Amount,
			Fee:        tierFee(t),
		}
	}
	return writeTierCSV(w, records)
}

func writeTierCSV(w io.Writer, records []tierRecord) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(tierRecord{}); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return eris.Wrap(err, "report: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}

func writeResultXLSX(w io.Writer, res *lehman.CalculationResult) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}
	addRow(summary, "Variant", res.Variant.Label())
	tevRow := summary.AddRow()
	tevRow.AddCell().SetString("TEV ($M)")
	tevRow.AddCell().SetFloat(res.TEV)
	feeRow := summary.AddRow()
	feeRow.AddCell().SetString("Fee")
	feeRow.AddCell().SetFloatWithFormat(res.Fee, moneyFormat)

	breakdown, err := f.AddSheet("Breakdown")
	if err != nil {
		return eris.Wrap(err, "report: add breakdown sheet")
	}
	addRow(breakdown, "Tier", "Range", "Rate (%)", "Fee")
	for _, t := range res.Breakdown {
		addTierRow(breakdown.AddRow(), t)
	}

	return eris.Wrap(f.Write(w), "report: write xlsx")
}

const moneyFormat = "#,##0.00"

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func addTierRow(row *xlsx.Row, t lehman.FeeTier) {
	row.AddCell().SetInt(t.Tier)
	row.AddCell().SetString(rangeLabel(t))
	row.AddCell().SetFloat(t.Percentage)
	row.AddCell().SetFloatWithFormat(t.Amount*1_000_000, moneyFormat)
}
