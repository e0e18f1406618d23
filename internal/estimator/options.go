package estimator

import "github.com/san-kum/kinfit/internal/kinetics"

// Options tunes the Levenberg-Marquardt solve. Every stopping
// criterion is explicit here rather than buried in the loop.
type Options struct {
	// MaxIterations bounds the outer iteration count; the fitter
	// returns its best-found result when the budget runs out.
	MaxIterations int

	// CostTol stops the solve when the relative cost reduction of an
	// accepted step falls below it.
	CostTol float64

	// StepTol stops the solve when the accepted step is small relative
	// to the parameter vector.
	StepTol float64

	// FDStep scales the forward-difference step per parameter:
	// h = FDStep * max(|x|, 1).
	FDStep float64

	// Lambda0 is the initial damping factor; LambdaUp and LambdaDown
	// move it after rejected and accepted steps.
	Lambda0    float64
	LambdaUp   float64
	LambdaDown float64

	// LambdaMax caps damping growth. When no descent step exists below
	// the cap the current point is treated as the minimum.
	LambdaMax float64

	// Progress, when set, is called after every accepted step.
	Progress func(ProgressUpdate)
}

// ProgressUpdate is a snapshot of the solve after an accepted step.
type ProgressUpdate struct {
	Iteration int
	Cost      float64
	Lambda    float64
	Params    kinetics.ParameterSet
}

func DefaultOptions() Options {
	return Options{
		MaxIterations: 200,
		CostTol:       1e-10,
		StepTol:       1e-10,
		FDStep:        1e-6,
		Lambda0:       1e-3,
		LambdaUp:      10,
		LambdaDown:    0.1,
		LambdaMax:     1e12,
	}
}
