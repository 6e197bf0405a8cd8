// Package deals reads deal lists and runs every row through the Lehman
// fee engine.
package deals

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/htmlindex"
)

// Row is one deal exactly as it appeared in the input. Numeric fields stay
// raw text so they go through the same validator as interactive input.
type Row struct {
	Line     int    `csv:"-" json:"line"`
	Name     string `csv:"name,omitempty" json:"name,omitempty"`
	EBITDA   string `csv:"ebitda" json:"ebitda"`
	Multiple string `csv:"multiple" json:"multiple"`
	Variant  string `csv:"variant,omitempty" json:"variant,omitempty"`
}

func (r Row) blank() bool {
	return strings.TrimSpace(r.Name) == "" &&
		strings.TrimSpace(r.EBITDA) == "" &&
		strings.TrimSpace(r.Multiple) == "" &&
		strings.TrimSpace(r.Variant) == ""
}

// ReadOptions configures deal list parsing.
type ReadOptions struct {
	Encoding string // CSV charset label, e.g. "windows-1252"; default UTF-8
	Sheet    string // XLSX sheet name; default first sheet
}

// columnAliases maps accepted header spellings to canonical column names.
var columnAliases = map[string]string{
	"name":            "name",
	"company":         "name",
	"deal":            "name",
	"ebitda":          "ebitda",
	"multiple":        "multiple",
	"mult":            "multiple",
	"ebitda multiple": "multiple",
	"variant":         "variant",
	"lehman":          "variant",
	"lehman type":     "variant",
}

var requiredColumns = []string{"ebitda", "multiple"}

// ReadFile reads a deal list, choosing the parser by file extension.
func ReadFile(path string, opts ReadOptions) ([]Row, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "deals: open csv")
	}
	defer f.Close() //nolint:errcheck

	return ReadCSV(f, opts)
}

// ReadCSV parses a headed CSV deal list. Header names are matched
// case-insensitively; ebitda and multiple are required.
func ReadCSV(r io.Reader, opts ReadOptions) ([]Row, error) {
	if opts.Encoding != "" {
		enc, err := htmlindex.Get(opts.Encoding)
		if err != nil {
			return nil, eris.Wrapf(err, "deals: unsupported encoding %q", opts.Encoding)
		}
		r = enc.NewDecoder().Reader(r)
	}

	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, eris.New("deals: csv is empty")
	}
	if err != nil {
		return nil, eris.Wrap(err, "deals: read csv header")
	}

	canonical, err := canonicalHeader(header)
	if err != nil {
		return nil, err
	}

	dec, err := csvutil.NewDecoder(cr, canonical...)
	if err != nil {
		return nil, eris.Wrap(err, "deals: init csv decoder")
	}

	var rows []Row
	for {
		var row Row
		err := dec.Decode(&row)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "deals: decode csv")
		}
		line, _ := cr.FieldPos(0)
		if row.blank() {
			continue
		}
		row.Line = line
		rows = append(rows, row)
	}

	return rows, nil
}

// ReadXLSX parses the first (or named) sheet of a workbook. The first
// non-empty row is the header.
func ReadXLSX(path string, opts ReadOptions) ([]Row, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "deals: open xlsx")
	}

	sheet, err := pickSheet(f, opts.Sheet)
	if err != nil {
		return nil, err
	}

	var (
		colIdx map[string]int
		rows   []Row
	)
	for i, xrow := range sheet.Rows {
		if xrow == nil {
			continue
		}
		cells := make([]string, len(xrow.Cells))
		for j, cell := range xrow.Cells {
			cells[j] = cell.String()
		}

		if colIdx == nil {
			if allBlank(cells) {
				continue
			}
			canonical, err := canonicalHeader(cells)
			if err != nil {
				return nil, err
			}
			colIdx = make(map[string]int, len(canonical))
			for j, col := range canonical {
				colIdx[col] = j
			}
			continue
		}

		row := Row{
			Line:     i + 1,
			Name:     getCol(cells, colIdx, "name"),
			EBITDA:   getCol(cells, colIdx, "ebitda"),
			Multiple: getCol(cells, colIdx, "multiple"),
			Variant:  getCol(cells, colIdx, "variant"),
		}
		if row.blank() {
			continue
		}
		rows = append(rows, row)
	}

	if colIdx == nil {
		return nil, eris.New("deals: xlsx sheet is empty")
	}
	return rows, nil
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("deals: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("deals: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

// canonicalHeader maps each header cell to its canonical column name.
// Unknown and repeated columns get a unique placeholder name.
func canonicalHeader(header []string) ([]string, error) {
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		col, ok := columnAliases[key]
		if !ok || seen[col] {
			// csvutil skips columns without a matching tag.
			out[i] = fmt.Sprintf("_ignored_%d", i)
			continue
		}
		seen[col] = true
		out[i] = col
	}
	for _, col := range requiredColumns {
		if !seen[col] {
			return nil, eris.Errorf("deals: missing required column %q", col)
		}
	}
	return out, nil
}

func getCol(cells []string, colIdx map[string]int, col string) string {
	i, ok := colIdx[col]
	if !ok || i >= len(cells) {
		return ""
	}
	return cells[i]
}

func allBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
