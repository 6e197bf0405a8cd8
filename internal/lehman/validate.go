package lehman

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MaxInput is the largest value the validator accepts for either field.
const MaxInput = 10000

// ErrorKind classifies why a raw input was rejected.
type ErrorKind int

// Validation error kinds, checked in declaration order.
const (
	ErrorNone ErrorKind = iota
	ErrorRequired
	ErrorNotANumber
	ErrorNegative
	ErrorTooLarge
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorNone:
		return "none"
	case ErrorRequired:
		return "required"
	case ErrorNotANumber:
		return "not_a_number"
	case ErrorNegative:
		return "negative"
	case ErrorTooLarge:
		return "too_large"
	default:
		return "unknown"
	}
}

// Message returns the text shown next to a rejected field.
func (k ErrorKind) Message() string {
	switch k {
	case ErrorRequired:
		return "This field is required"
	case ErrorNotANumber:
		return "Please enter a valid number"
	case ErrorNegative:
		return "Value must be positive"
	case ErrorTooLarge:
		return "Value seems unreasonably large (max 10,000)"
	default:
		return ""
	}
}

// ValidationResult is the verdict for one raw input. Value is only
// meaningful when Valid is true; Kind only when it is false.
type ValidationResult struct {
	Valid bool      `json:"valid"`
	Value float64   `json:"value"`
	Kind  ErrorKind `json:"-"`
}

// Err returns nil for a valid result and a *ValidationError otherwise.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Kind: r.Kind}
}

// decimalLiteral matches a complete plain decimal number. strconv.ParseFloat
// alone also accepts hex floats, "Inf", "NaN" and underscores.
var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Validate turns raw field text into a number or an ErrorKind. Surrounding
// whitespace is ignored; anything else that is not part of the number
// (e.g. "5.5abc") rejects the whole input.
func Validate(text string) ValidationResult {
	s := strings.TrimSpace(text)
	if s == "" {
		return ValidationResult{Kind: ErrorRequired}
	}

	if !decimalLiteral.MatchString(s) {
		return ValidationResult{Kind: ErrorNotANumber}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return ValidationResult{Kind: ErrorNotANumber}
	}

	if v < 0 {
		return ValidationResult{Kind: ErrorNegative}
	}
	if v > MaxInput {
		return ValidationResult{Kind: ErrorTooLarge}
	}

	// Fold "-0" into 0.
	if v == 0 {
		v = 0
	}
	return ValidationResult{Valid: true, Value: v}
}
