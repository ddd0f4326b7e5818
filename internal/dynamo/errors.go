package dynamo

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors for configuration and stepping.
var (
	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates a run was interrupted.
	ErrContextCanceled = errors.New("dynamo: run canceled by context")
)

// SimError records where in a run an error surfaced.
type SimError struct {
	Time    float64
	Step    int
	Message string
	Wrapped error
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error {
	return e.Wrapped
}

// CheckParam returns an error wrapping ErrParameterBounds when v is negative
// or not a finite number.
func CheckParam(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be finite, got %v: %w", name, v, ErrParameterBounds)
	}
	if v < 0 {
		return fmt.Errorf("%s must be non-negative, got %v: %w", name, v, ErrParameterBounds)
	}
	return nil
}
