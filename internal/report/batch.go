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

	"github.com/sells-group/lehman-cli/internal/deals"
	"github.com/sells-group/lehman-cli/internal/lehman"
)

// outcomeRecord is the flat form of one batch row, shared by CSV and XLSX.
type outcomeRecord struct {
	Line     int      `csv:"line"`
	Name     string   `csv:"name"`
	EBITDA   string   `csv:"ebitda"`
	Multiple string   `csv:"multiple"`
	Variant  string   `csv:"variant"`
	TEV      *float64 `csv:"tev"` // nil for rejected rows
	Fee      *float64 `csv:"fee"`
	FeeText  string   `csv:"formatted_fee"`
	Status   string   `csv:"status"`
	Error    string   `csv:"error"`
}

func toRecord(o deals.Outcome) outcomeRecord {
	rec := outcomeRecord{
		Line:     o.Row.Line,
		Name:     o.Row.Name,
		EBITDA:   o.Row.EBITDA,
		Multiple: o.Row.Multiple,
		Variant:  o.Row.Variant,
		Status:   "error",
		Error:    o.ErrorText(),
	}
	if o.OK() {
		rec.Variant = string(o.Result.Variant)
		tev, fee := o.Result.TEV, o.Result.Fee
		rec.TEV = &tev
		rec.Fee = &fee
		rec.FeeText = o.Result.FormattedFee
		rec.Status = "ok"
	}
	return rec
}

// Summary counts batch outcomes.
type Summary struct {
	Total     int     `json:"total"`
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
	TotalFee  float64 `json:"total_fee"`
}

// Summarize tallies outcomes. TotalFee covers successful rows only.
func Summarize(outs []deals.Outcome) Summary {
	s := Summary{Total: len(outs)}
	for _, o := range outs {
		if o.OK() {
			s.Succeeded++
			s.TotalFee += o.Result.Fee
		} else {
			s.Failed++
		}
	}
	return s
}

// WriteOutcomes renders a batch of outcomes in input order.
func WriteOutcomes(w io.Writer, outs []deals.Outcome, f Format) error {
	switch f {
	case Table:
		return writeOutcomesTable(w, outs)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		payload := struct {
			Summary  Summary         `json:"summary"`
			Outcomes []deals.Outcome `json:"outcomes"`
		}{Summarize(outs), outs}
		if payload.Outcomes == nil {
			payload.Outcomes = []deals.Outcome{}
		}
		return eris.Wrap(enc.Encode(payload), "report: encode json")
	case CSV:
		return writeOutcomesCSV(w, outs)
	case XLSX:
		return writeOutcomesXLSX(w, outs)
	default:
		return eris.Errorf("report: unsupported format %q", f)
	}
}

func writeOutcomesTable(w io.Writer, outs []deals.Outcome) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tNAME\tEBITDA\tMULTIPLE\tVARIANT\tTEV ($M)\tFEE\tSTATUS")
	for _, o := range outs {
		rec := toRecord(o)
		tev, fee, status := "-", "-", rec.Error
		if o.OK() {
			tev = o.Result.FormattedTEV
			fee = money(o.Result.FormattedFee)
			status = rec.Status
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.Line, dash(rec.Name), dash(rec.EBITDA), dash(rec.Multiple), dash(rec.Variant), tev, fee, status)
	}
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "report: write outcomes")
	}

	s := Summarize(outs)
	_, err := fmt.Fprintf(w, "\n%d rows: %d ok, %d failed. Total fees $%s\n",
		s.Total, s.Succeeded, s.Failed, lehman.FormatCurrency(s.TotalFee))
	return eris.Wrap(err, "report: write summary")
}

func writeOutcomesCSV(w io.Writer, outs []deals.Outcome) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(outcomeRecord{}); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, o := range outs {
		if err := enc.Encode(toRecord(o)); err != nil {
			return eris.Wrapf(err, "report: write csv row %d", o.Row.Line)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}

func writeOutcomesXLSX(w io.Writer, outs []deals.Outcome) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Fees")
	if err != nil {
		return eris.Wrap(err, "report: add fees sheet")
	}
	addRow(sheet, "Line", "Name", "EBITDA", "Multiple", "Variant", "TEV ($M)", "Fee", "Status", "Error")
	for _, o := range outs {
		rec := toRecord(o)
		row := sheet.AddRow()
		row.AddCell().SetInt(rec.Line)
		row.AddCell().SetString(rec.Name)
		row.AddCell().SetString(rec.EBITDA)
		row.AddCell().SetString(rec.Multiple)
		row.AddCell().SetString(rec.Variant)
		if o.OK() {
			row.AddCell().SetFloat(*rec.TEV)
			row.AddCell().SetFloatWithFormat(*rec.Fee, moneyFormat)
		} else {
			row.AddCell()
			row.AddCell()
		}
		row.AddCell().SetString(rec.Status)
		row.AddCell().SetString(rec.Error)
	}

	breakdown, err := f.AddSheet("Breakdown")
	if err != nil {
		return eris.Wrap(err, "report: add breakdown sheet")
	}
	addRow(breakdown, "Line", "Name", "Tier", "Range", "Rate (%)", "Fee")
	for _, o := range outs {
		if !o.OK() {
			continue
		}
		for _, t := range o.Result.Breakdown {
			row := breakdown.AddRow()
			row.AddCell().SetInt(o.Row.Line)
			row.AddCell().SetString(o.Row.Name)
			addTierRow(row, t)
		}
	}

	return eris.Wrap(f.Write(w), "report: write xlsx")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
