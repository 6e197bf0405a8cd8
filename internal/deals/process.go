package deals

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lehman-cli/internal/lehman"
)

// FieldError explains why one field of a row was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Outcome pairs an input row with either its result or its field errors.
type Outcome struct {
	Row    Row                       `json:"row"`
	Result *lehman.CalculationResult `json:"result,omitempty"`
	Errors []FieldError              `json:"errors,omitempty"`
}

// OK reports whether the row produced a result.
func (o Outcome) OK() bool {
	return o.Result != nil && len(o.Errors) == 0
}

// ErrorText joins the field errors as "field: message; field: message".
func (o Outcome) ErrorText() string {
	parts := make([]string, len(o.Errors))
	for i, fe := range o.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// Processor evaluates deal rows against one schedule.
type Processor struct {
	schedule    *lehman.Schedule
	variant     lehman.Variant
	concurrency int
}

// NewProcessor creates a Processor. Rows without a variant column use
// variant. A nil schedule means the standard Lehman schedule.
func NewProcessor(schedule *lehman.Schedule, variant lehman.Variant, concurrency int) *Processor {
	if schedule == nil {
		schedule = lehman.StandardSchedule()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Processor{schedule: schedule, variant: variant, concurrency: concurrency}
}

// Evaluate validates and calculates a single row. Every invalid field is
// reported, not just the first.
func (p *Processor) Evaluate(row Row) Outcome {
	out := Outcome{Row: row}

	ebitda := lehman.Validate(row.EBITDA)
	if !ebitda.Valid {
		out.Errors = append(out.Errors, fieldError("ebitda", ebitda.Kind))
	}
	multiple := lehman.Validate(row.Multiple)
	if !multiple.Valid {
		out.Errors = append(out.Errors, fieldError("multiple", multiple.Kind))
	}

	variant := p.variant
	if strings.TrimSpace(row.Variant) != "" {
		v, err := lehman.ParseVariant(row.Variant)
		if err != nil {
			out.Errors = append(out.Errors, FieldError{
				Field:   "variant",
				Kind:    "unknown_variant",
				Message: "Variant must be single or double",
			})
		}
		variant = v
	}

	if len(out.Errors) > 0 {
		return out
	}

	res, err := p.schedule.Calculate(lehman.CalculationInput{
		BaseValue: ebitda.Value,
		Multiple:  multiple.Value,
		Variant:   variant,
	})
	if err != nil {
		// Unreachable for validated input.
		out.Errors = append(out.Errors, FieldError{Field: "calculation", Kind: "invalid_input", Message: err.Error()})
		return out
	}
	out.Result = res
	return out
}

// Process evaluates rows with bounded concurrency. Outcomes are returned in
// input order; a row's failure never stops the others. Cancelling ctx stops
// scheduling new rows and returns the context error.
func (p *Processor) Process(ctx context.Context, rows []Row) ([]Outcome, error) {
	log := zap.L().With(zap.String("schedule", p.schedule.Name()), zap.String("variant", string(p.variant)))

	outcomes := make([]Outcome, len(rows))
	var succeeded, failed atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, row := range rows {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			out := p.Evaluate(row)
			if out.OK() {
				succeeded.Add(1)
			} else {
				failed.Add(1)
				log.Debug("deals: row rejected",
					zap.Int("line", row.Line),
					zap.String("name", row.Name),
					zap.String("errors", out.ErrorText()),
				)
			}
			// Each goroutine owns exactly one slot.
			outcomes[i] = out
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "deals: process cancelled")
	}

	log.Info("deals: batch complete",
		zap.Int("total", len(rows)),
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)

	return outcomes, nil
}

func fieldError(field string, kind lehman.ErrorKind) FieldError {
	return FieldError{Field: field, Kind: kind.String(), Message: kind.Message()}
}
