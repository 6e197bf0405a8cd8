package lehman

import "github.com/rotisserie/eris"

// Calculation-time errors. These only surface when validation was bypassed.
// ErrUnknownVariant is also an ErrInvalidInput.
var (
	ErrInvalidInput    = eris.New("lehman: invalid input")
	ErrUnknownVariant  = eris.Wrap(ErrInvalidInput, "lehman: unknown variant")
	ErrInvalidSchedule = eris.New("lehman: invalid schedule")
)

// Validation-time errors, one per ErrorKind.
var (
	ErrRequired   = eris.New("required")
	ErrNotANumber = eris.New("not a number")
	ErrNegative   = eris.New("negative")
	ErrTooLarge   = eris.New("too large")
)

// ValidationError is the error form of a failed ValidationResult.
// It unwraps to the sentinel matching its Kind.
type ValidationError struct {
	Kind ErrorKind
}

func (e *ValidationError) Error() string {
	return e.Kind.Message()
}

func (e *ValidationError) Unwrap() error {
	switch e.Kind {
	case ErrorRequired:
		return ErrRequired
	case ErrorNotANumber:
		return ErrNotANumber
	case ErrorNegative:
		return ErrNegative
	case ErrorTooLarge:
		return ErrTooLarge
	default:
		return nil
	}
}
