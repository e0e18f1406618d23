package reactor

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeConcentration indicates a starting concentration below zero.
	ErrNegativeConcentration = errors.New("reactor: starting concentration must be non-negative")

	// ErrNegativeTime indicates a sample time before the start of the run.
	ErrNegativeTime = errors.New("reactor: sample times must be non-negative")

	// ErrNonMonotonicTimes indicates a time grid that is not strictly increasing.
	ErrNonMonotonicTimes = errors.New("reactor: sample times must be strictly increasing")

	// ErrStepTooSmall indicates the adaptive step shrank below the floor.
	ErrStepTooSmall = errors.New("reactor: adaptive step size underflow")

	// ErrTooManySteps indicates the step budget ran out before the last
	// sample time was reached.
	ErrTooManySteps = errors.New("reactor: step budget exhausted")

	// ErrInvalidState indicates the integrated state became NaN or Inf.
	ErrInvalidState = errors.New("reactor: state is NaN or Inf")
)

// IntegrationError reports a trajectory the solver could not complete.
// Callers that fit parameters absorb it into a penalty residual instead
// of aborting the whole fit.
type IntegrationError struct {
	Time    float64
	Wrapped error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("reactor: integration failed at t=%.6g: %v", e.Time, e.Wrapped)
}

func (e *IntegrationError) Unwrap() error {
	return e.Wrapped
}
