package kinetics

import "errors"

// Domain errors rejected at the boundary, before any integration runs.
var (
	// ErrNonPositiveTemperature indicates a temperature at or below 0 K.
	ErrNonPositiveTemperature = errors.New("kinetics: temperature must be positive")

	// ErrNonFiniteParameters indicates a parameter set containing NaN or Inf.
	ErrNonFiniteParameters = errors.New("kinetics: parameter set contains NaN or Inf")
)
