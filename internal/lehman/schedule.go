package lehman

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// TierSpec is one row of a fee schedule table: the rate applies from Lower
// (in millions) up to the next row's Lower, or without limit for the last row.
type TierSpec struct {
	Lower float64 `yaml:"lower" json:"lower"`
	Rate  float64 `yaml:"rate" json:"rate"`
}

// standardTiers is the classic Lehman table, 5-4-3-2-1 over the first four
// millions and everything above.
var standardTiers = []TierSpec{
	{Lower: 0, Rate: 0.05},
	{Lower: 1, Rate: 0.04},
	{Lower: 2, Rate: 0.03},
	{Lower: 3, Rate: 0.02},
	{Lower: 4, Rate: 0.01},
}

// Schedule is an immutable, validated fee schedule table.
type Schedule struct {
	name  string
	specs []TierSpec
	lower []decimal.Decimal
	rate  []decimal.Decimal
}

// StandardSchedule returns the five-tier Lehman schedule.
func StandardSchedule() *Schedule {
	s, err := NewSchedule("standard", standardTiers)
	if err != nil {
		panic(err) // static table
	}
	return s
}

// NewSchedule validates specs and builds a Schedule from them.
func NewSchedule(name string, specs []TierSpec) (*Schedule, error) {
	if len(specs) == 0 {
		return nil, eris.Wrap(ErrInvalidSchedule, "lehman: schedule has no tiers")
	}
	if specs[0].Lower != 0 {
		return nil, eris.Wrapf(ErrInvalidSchedule, "lehman: first tier must start at 0 (got %g)", specs[0].Lower)
	}

	s := &Schedule{
		name:  name,
		specs: make([]TierSpec, len(specs)),
		lower: make([]decimal.Decimal, len(specs)),
		rate:  make([]decimal.Decimal, len(specs)),
	}
	for i, spec := range specs {
		if i > 0 && spec.Lower <= specs[i-1].Lower {
			return nil, eris.Wrapf(ErrInvalidSchedule,
				"lehman: tier %d lower bound %g must exceed %g", i+1, spec.Lower, specs[i-1].Lower)
		}
		if spec.Rate < 0 || spec.Rate > 1 {
			return nil, eris.Wrapf(ErrInvalidSchedule, "lehman: tier %d rate %g outside [0, 1]", i+1, spec.Rate)
		}
		s.specs[i] = spec
		s.lower[i] = decimal.NewFromFloat(spec.Lower)
		s.rate[i] = decimal.NewFromFloat(spec.Rate)
	}
	return s, nil
}

// Name identifies the schedule in output, e.g. "standard".
func (s *Schedule) Name() string {
	return s.name
}

// Len returns the number of tiers.
func (s *Schedule) Len() int {
	return len(s.specs)
}

// Specs returns a copy of the underlying table.
func (s *Schedule) Specs() []TierSpec {
	out := make([]TierSpec, len(s.specs))
	copy(out, s.specs)
	return out
}

// Tiers returns the breakdown skeleton for v: ranges and effective
// percentages with zero amounts.
func (s *Schedule) Tiers(v Variant) []FeeTier {
	mul := decimal.NewFromInt(v.orDefault().Multiplier())
	tiers := make([]FeeTier, len(s.specs))
	for i := range s.specs {
		tiers[i] = FeeTier{
			Tier:       i + 1,
			RangeStart: s.specs[i].Lower,
			Percentage: s.rate[i].Mul(hundred).Mul(mul).InexactFloat64(),
		}
		if i+1 < len(s.specs) {
			end := s.specs[i+1].Lower
			tiers[i].RangeEnd = &end
		}
	}
	return tiers
}

// upper returns the exclusive upper bound of tier i, or false when the
// tier is unbounded.
func (s *Schedule) upper(i int) (decimal.Decimal, bool) {
	if i+1 < len(s.lower) {
		return s.lower[i+1], true
	}
	return decimal.Decimal{}, false
}

// scheduleFile is the on-disk layout read by LoadSchedule.
type scheduleFile struct {
	Schedule struct {
		Name  string     `yaml:"name"`
		Tiers []TierSpec `yaml:"tiers"`
	} `yaml:"schedule"`
}

// LoadSchedule reads a custom schedule from a YAML file:
//
//	schedule:
//	  name: modern
//	  tiers:
//	    - {lower: 0, rate: 0.06}
//	    - {lower: 2, rate: 0.04}
func LoadSchedule(path string) (*Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "lehman: read schedule %s", path)
	}

	var f scheduleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "lehman: parse schedule")
	}

	name := f.Schedule.Name
	if name == "" {
		name = "custom"
	}
	s, err := NewSchedule(name, f.Schedule.Tiers)
	if err != nil {
		return nil, eris.Wrapf(err, "lehman: schedule %s", path)
	}
	return s, nil
}
