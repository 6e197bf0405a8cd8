package lehman

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatCurrency renders amount with exactly two decimals, rounding half
// away from zero, and comma-grouped thousands: 1234.567 -> "1,234.57".
// Negative amounts are not expected.
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return strconv.FormatFloat(amount, 'f', 2, 64)
	}
	return formatDecimal(decimal.NewFromFloat(amount))
}

func formatDecimal(d decimal.Decimal) string {
	// Round here so the printer never has to break a tie; it rounds half
	// to even.
	rounded := d.Round(2).InexactFloat64()
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", number.Decimal(rounded, number.Scale(2)))
}
