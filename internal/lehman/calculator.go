// Package lehman computes tiered M&A advisory fees with the Lehman Formula.
//
// Inputs are an EBITDA figure and a multiple, both in millions. Their product
// is the total enterprise value (TEV), which is walked through a fixed table
// of rate tiers. Validation, calculation and formatting are independent pure
// functions.
package lehman

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

var (
	million = decimal.NewFromInt(1_000_000)
	hundred = decimal.NewFromInt(100)
)

// CalculationInput holds validated inputs. BaseValue (EBITDA) and Multiple
// must both be >= 0. The zero Variant means Single.
type CalculationInput struct {
	BaseValue float64 `json:"ebitda"`
	Multiple  float64 `json:"multiple"`
	Variant   Variant `json:"variant"`
}

// FeeTier is one row of the fee breakdown. Ranges and Amount are in
// millions; RangeEnd is nil for the open-ended top tier.
type FeeTier struct {
	Tier       int      `json:"tier"`
	RangeStart float64  `json:"range_start"`
	RangeEnd   *float64 `json:"range_end"`
	Percentage float64  `json:"percentage"`
	Amount     float64  `json:"amount"`
}

// Unbounded reports whether the tier has no upper limit.
func (t FeeTier) Unbounded() bool {
	return t.RangeEnd == nil
}

// CalculationResult is the full output of one calculation.
type CalculationResult struct {
	Variant      Variant   `json:"variant"`
	TEV          float64   `json:"tev"` // millions, rounded to 3 places
	Fee          float64   `json:"fee"` // absolute currency units
	Breakdown    []FeeTier `json:"fee_breakdown"`
	FormattedTEV string    `json:"formatted_tev"`
	FormattedFee string    `json:"formatted_fee"`
}

// Calculate computes the fee for in on the standard Lehman schedule.
func Calculate(in CalculationInput) (*CalculationResult, error) {
	return StandardSchedule().Calculate(in)
}

// Calculate computes the fee for in on schedule s. The breakdown always has
// one entry per tier, including tiers above the TEV.
func (s *Schedule) Calculate(in CalculationInput) (*CalculationResult, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	variant := in.Variant.orDefault()
	mul := decimal.NewFromInt(variant.Multiplier())

	// The tier walk uses the unrounded product; rounding first would shift
	// amounts near tier boundaries.
	tev := decimal.NewFromFloat(in.BaseValue).Mul(decimal.NewFromFloat(in.Multiple))

	breakdown := s.Tiers(variant)
	total := decimal.Zero
	for i := range breakdown {
		portion := tev.Sub(s.lower[i])
		if portion.IsNegative() {
			portion = decimal.Zero
		}
		if end, ok := s.upper(i); ok {
			portion = decimal.Min(portion, end.Sub(s.lower[i]))
		}

		amount := portion.Mul(s.rate[i]).Mul(mul)
		breakdown[i].Amount = amount.InexactFloat64()
		total = total.Add(amount)
	}

	fee := total.Mul(million)

	return &CalculationResult{
		Variant:      variant,
		TEV:          tev.Round(3).InexactFloat64(),
		Fee:          fee.InexactFloat64(),
		Breakdown:    breakdown,
		FormattedTEV: formatDecimal(tev),
		FormattedFee: formatDecimal(fee),
	}, nil
}

func (in CalculationInput) check() error {
	if math.IsNaN(in.BaseValue) || math.IsInf(in.BaseValue, 0) {
		return eris.Wrap(ErrInvalidInput, "lehman: ebitda is not finite")
	}
	if math.IsNaN(in.Multiple) || math.IsInf(in.Multiple, 0) {
		return eris.Wrap(ErrInvalidInput, "lehman: multiple is not finite")
	}
	if in.BaseValue < 0 {
		return eris.Wrapf(ErrInvalidInput, "lehman: ebitda must not be negative (got %g)", in.BaseValue)
	}
	if in.Multiple < 0 {
		return eris.Wrapf(ErrInvalidInput, "lehman: multiple must not be negative (got %g)", in.Multiple)
	}
	if !in.Variant.valid() {
		return eris.Wrapf(ErrUnknownVariant, "lehman: variant %q", string(in.Variant))
	}
	return nil
}
