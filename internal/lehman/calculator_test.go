package lehman

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ebitda   float64
		multiple float64
		variant  Variant
		wantTEV  float64
		wantFee  float64
	}{
		{
			name: "tev under 1M", ebitda: 0.5, multiple: 1, variant: Single,
			wantTEV: 0.5, wantFee: 25_000, // 0.5M * 5%
		},
		{
			name: "tev between 1M and 2M", ebitda: 1.5, multiple: 1, variant: Single,
			wantTEV: 1.5, wantFee: 70_000, // 50k + 0.5M * 4%
		},
		{
			name: "tev between 2M and 3M", ebitda: 2.5, multiple: 1, variant: Single,
			wantTEV: 2.5, wantFee: 105_000, // 50k + 40k + 15k
		},
		{
			name: "tev between 3M and 4M", ebitda: 3.5, multiple: 1, variant: Single,
			wantTEV: 3.5, wantFee: 130_000, // 50k + 40k + 30k + 10k
		},
		{
			name: "tev 15M single", ebitda: 3, multiple: 5, variant: Single,
			// 50k + 40k + 30k + 20k + 11M * 1%
			wantTEV: 15, wantFee: 250_000,
		},
		{
			name: "tev 15M double", ebitda: 3, multiple: 5, variant: Double,
			wantTEV: 15, wantFee: 500_000,
		},
		{
			name: "zero variant is single", ebitda: 3, multiple: 5,
			wantTEV: 15, wantFee: 250_000,
		},
		{
			name: "zero ebitda", ebitda: 0, multiple: 5, variant: Single,
			wantTEV: 0, wantFee: 0,
		},
		{
			name: "zero multiple", ebitda: 5, multiple: 0, variant: Double,
			wantTEV: 0, wantFee: 0,
		},
		{
			name: "exactly on tier boundary", ebitda: 2, multiple: 1, variant: Single,
			wantTEV: 2, wantFee: 90_000,
		},
		{
			name: "tev rounded to three places", ebitda: 1.2345, multiple: 1, variant: Single,
			// fee uses the unrounded 1.2345: 50k + 0.2345M * 4% = 59,380
			wantTEV: 1.235, wantFee: 59_380,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Calculate(CalculationInput{BaseValue: tt.ebitda, Multiple: tt.multiple, Variant: tt.variant})
			require.NoError(t, err)
			assert.InDelta(t, tt.wantTEV, got.TEV, 1e-9)
			assert.InDelta(t, tt.wantFee, got.Fee, 1e-6)
			assert.Len(t, got.Breakdown, 5)
		})
	}
}

func TestCalculate_Breakdown15M(t *testing.T) {
	got, err := Calculate(CalculationInput{BaseValue: 3, Multiple: 5, Variant: Single})
	require.NoError(t, err)

	wantAmounts := []float64{0.05, 0.04, 0.03, 0.02, 0.11}
	wantPct := []float64{5, 4, 3, 2, 1}
	for i, tier := range got.Breakdown {
		assert.Equal(t, i+1, tier.Tier)
		assert.InDelta(t, float64(i), tier.RangeStart, 1e-12)
		assert.InDelta(t, wantAmounts[i], tier.Amount, 1e-12)
		assert.InDelta(t, wantPct[i], tier.Percentage, 1e-12)
		if i < 4 {
			require.NotNil(t, tier.RangeEnd)
			assert.InDelta(t, float64(i+1), *tier.RangeEnd, 1e-12)
			assert.False(t, tier.Unbounded())
		} else {
			assert.True(t, tier.Unbounded())
		}
	}
	assert.Equal(t, Single, got.Variant)
	assert.Equal(t, "15.00", got.FormattedTEV)
	assert.Equal(t, "250,000.00", got.FormattedFee)
}

func TestCalculate_DoublePercentages(t *testing.T) {
	got, err := Calculate(CalculationInput{BaseValue: 1, Multiple: 1, Variant: Double})
	require.NoError(t, err)

	wantPct := []float64{10, 8, 6, 4, 2}
	for i, tier := range got.Breakdown {
		assert.InDelta(t, wantPct[i], tier.Percentage, 1e-12)
	}
	assert.InDelta(t, 100_000, got.Fee, 1e-6)
	assert.Equal(t, Double, got.Variant)
}

func TestCalculate_ZeroTiersStayInBreakdown(t *testing.T) {
	got, err := Calculate(CalculationInput{BaseValue: 0.5, Multiple: 1})
	require.NoError(t, err)
	require.Len(t, got.Breakdown, 5)
	for _, tier := range got.Breakdown[1:] {
		assert.Zero(t, tier.Amount)
	}
}

func TestCalculate_FormattedFee(t *testing.T) {
	got, err := Calculate(CalculationInput{BaseValue: 1, Multiple: 1, Variant: Single})
	require.NoError(t, err)
	assert.Equal(t, "50,000.00", got.FormattedFee)
	assert.Equal(t, "1.00", got.FormattedTEV)
}

func TestCalculate_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   CalculationInput
		want error
	}{
		{"negative ebitda", CalculationInput{BaseValue: -1, Multiple: 5}, ErrInvalidInput},
		{"negative multiple", CalculationInput{BaseValue: 3, Multiple: -5}, ErrInvalidInput},
		{"both negative", CalculationInput{BaseValue: -3, Multiple: -5}, ErrInvalidInput},
		{"unknown variant", CalculationInput{BaseValue: 3, Multiple: 5, Variant: "triple"}, ErrUnknownVariant},
		{"unknown variant is invalid input", CalculationInput{BaseValue: 3, Multiple: 5, Variant: "triple"}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Calculate(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, got)
		})
	}
}

func TestCalculate_TEVIsProduct(t *testing.T) {
	t.Parallel()
	for _, ebitda := range []float64{0, 0.1, 0.7, 1, 2.25, 3, 12.5, 100, 9999} {
		for _, multiple := range []float64{0, 0.3, 1, 4.5, 8, 11.75} {
			got, err := Calculate(CalculationInput{BaseValue: ebitda, Multiple: multiple})
			require.NoError(t, err)
			assert.InDelta(t, ebitda*multiple, got.TEV, 0.0005)
			assert.GreaterOrEqual(t, got.Fee, 0.0)
		}
	}
}

func TestCalculate_Monotonic(t *testing.T) {
	t.Parallel()
	for _, v := range Variants() {
		prev := -1.0
		for tev := 0.0; tev <= 12; tev += 0.05 {
			got, err := Calculate(CalculationInput{BaseValue: tev, Multiple: 1, Variant: v})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got.Fee, prev, "variant %s tev %g", v, tev)
			prev = got.Fee
		}
	}
}

func TestCalculate_DoubleIsTwiceSingle(t *testing.T) {
	t.Parallel()
	for _, ebitda := range []float64{0, 0.33, 1, 1.5, 2.9, 3, 7.1, 250} {
		for _, multiple := range []float64{0, 1, 2.5, 6, 13} {
			single, err := Calculate(CalculationInput{BaseValue: ebitda, Multiple: multiple, Variant: Single})
			require.NoError(t, err)
			double, err := Calculate(CalculationInput{BaseValue: ebitda, Multiple: multiple, Variant: Double})
			require.NoError(t, err)
			assert.Equal(t, 2*single.Fee, double.Fee, "ebitda %g multiple %g", ebitda, multiple)
		}
	}
}

func TestCalculate_BreakdownSumsToFee(t *testing.T) {
	t.Parallel()
	for _, tev := range []float64{0, 0.25, 1, 1.75, 3.3, 4, 4.01, 55.5} {
		got, err := Calculate(CalculationInput{BaseValue: tev, Multiple: 1})
		require.NoError(t, err)
		require.Len(t, got.Breakdown, 5)

		var sum float64
		for _, tier := range got.Breakdown {
			sum += tier.Amount
		}
		assert.InDelta(t, got.Fee, sum*1_000_000, 1e-6)
	}
}

func TestCalculate_ContinuousAtBoundaries(t *testing.T) {
	t.Parallel()
	const eps = 1e-9
	for _, boundary := range []float64{1, 2, 3, 4} {
		below, err := Calculate(CalculationInput{BaseValue: boundary - eps, Multiple: 1})
		require.NoError(t, err)
		at, err := Calculate(CalculationInput{BaseValue: boundary, Multiple: 1})
		require.NoError(t, err)
		above, err := Calculate(CalculationInput{BaseValue: boundary + eps, Multiple: 1})
		require.NoError(t, err)

		// Slopes are at most 5% of 1M per million, so a 1e-9 step moves the fee by < 0.001.
		assert.InDelta(t, at.Fee, below.Fee, 0.001, "boundary %g", boundary)
		assert.InDelta(t, at.Fee, above.Fee, 0.001, "boundary %g", boundary)
	}
}

func TestScheduleCalculate_Custom(t *testing.T) {
	s, err := NewSchedule("modern", []TierSpec{
		{Lower: 0, Rate: 0.06},
		{Lower: 2, Rate: 0.04},
	})
	require.NoError(t, err)

	got, err := s.Calculate(CalculationInput{BaseValue: 5, Multiple: 1, Variant: Single})
	require.NoError(t, err)

	// 2M * 6% + 3M * 4% = 0.24M
	assert.InDelta(t, 240_000, got.Fee, 1e-6)
	require.Len(t, got.Breakdown, 2)
	assert.True(t, got.Breakdown[1].Unbounded())
}
