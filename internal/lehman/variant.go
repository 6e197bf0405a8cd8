package lehman

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Variant selects how every tier rate of a schedule is scaled.
type Variant string

const (
	// Single applies the schedule rates as written (5-4-3-2-1).
	Single Variant = "single"
	// Double applies twice every rate (10-8-6-4-2). Boundaries are unchanged.
	Double Variant = "double"
)

// Variants lists the supported variants in display order.
func Variants() []Variant {
	return []Variant{Single, Double}
}

// ParseVariant resolves a variant name, ignoring case and surrounding space.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case Single:
		return Single, nil
	case Double:
		return Double, nil
	default:
		return "", eris.Wrapf(ErrUnknownVariant, "lehman: parse variant %q", s)
	}
}

// Multiplier returns the factor applied to every base rate.
func (v Variant) Multiplier() int64 {
	if v == Double {
		return 2
	}
	return 1
}

// Label is the human-readable name, e.g. "Double Lehman".
func (v Variant) Label() string {
	if v == Double {
		return "Double Lehman"
	}
	return "Single Lehman"
}

func (v Variant) valid() bool {
	return v == "" || v == Single || v == Double
}

// orDefault maps the zero Variant to Single.
func (v Variant) orDefault() Variant {
	if v == "" {
		return Single
	}
	return v
}
