package reactor

import "math"

// State is the vector of integrated concentrations.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is an autonomous-or-not first-order ODE dX/dt = f(X, t).
type System interface {
	Derivative(x State, t float64) State
	Dim() int
}

// Condition describes one experimental run: the bath temperature in
// Kelvin, the starting concentration of A in mol/L, and the time grid
// (seconds) the solution is sampled on.
type Condition struct {
	T       float64
	CAStart float64
	Times   []float64
}

// SolverOptions controls the adaptive integrator. The defaults keep
// integration error well below typical measurement noise.
//
// MaxSteps bounds the total number of attempted steps per trajectory.
// Stiff rate coefficients pin the stable step size near 1/(kf+kr)
// without ever violating MinStep, so a step budget is the guard that
// turns such a grind into a fast typed failure.
type SolverOptions struct {
	RTol        float64
	ATol        float64
	InitialStep float64
	MinStep     float64
	MaxSteps    int
}

func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		RTol:        1e-8,
		ATol:        1e-10,
		InitialStep: 1e-3,
		MinStep:     1e-14,
		MaxSteps:    1_000_000,
	}
}
