package reactor

import (
	"context"

	"github.com/san-kum/kinfit/internal/kinetics"
)

// Simulate integrates the batch reactor ODE from t=0 with CA(0) =
// cond.CAStart and returns predicted CA at each requested time, in the
// order requested. The grid may start anywhere at or after zero and
// need not be uniform. Solver failures come back as *IntegrationError,
// never as silent NaN; cancellation of ctx stops the integration and
// propagates the context error unchanged.
func Simulate(ctx context.Context, p kinetics.ParameterSet, cond Condition, opts SolverOptions) ([]float64, error) {
	if err := validateTimes(cond.Times); err != nil {
		return nil, err
	}
	sys, err := NewBatchReactor(p, cond.T, cond.CAStart)
	if err != nil {
		return nil, err
	}

	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultSolverOptions().MaxSteps
	}

	stepper := NewDormandPrince()
	out := make([]float64, len(cond.Times))

	x := State{cond.CAStart}
	t := 0.0
	dt := opts.InitialStep
	steps := 0

	for i, target := range cond.Times {
		for t < target {
			steps++
			if steps > maxSteps {
				return nil, &IntegrationError{Time: t, Wrapped: ErrTooManySteps}
			}
			if steps%64 == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}

			clamped := false
			if dt >= target-t {
				dt = target - t
				clamped = true
			}
			if !clamped && dt < opts.MinStep {
				return nil, &IntegrationError{Time: t, Wrapped: ErrStepTooSmall}
			}

			xNew, dtNext, errRatio := stepper.StepAdaptive(sys, x, t, dt, opts.RTol, opts.ATol)

			// An oversized trial step may overflow transiently; that
			// shows up as errRatio > 1 and gets retried smaller. Only
			// an accepted invalid state is fatal.
			if errRatio <= 1 {
				if !xNew.IsValid() {
					return nil, &IntegrationError{Time: t, Wrapped: ErrInvalidState}
				}
				if clamped {
					t = target
				} else {
					t += dt
				}
				x = xNew
			}
			dt = dtNext
		}
		out[i] = x[0]
	}

	return out, nil
}

// Trajectory samples the solution on a uniform grid of n points over
// [0, tEnd]. Convenience for plotting and export; the fitting path
// always goes through Simulate with the experiment's own grid.
func Trajectory(ctx context.Context, p kinetics.ParameterSet, T, caStart, tEnd float64, n int) ([]float64, []float64, error) {
	if n < 2 {
		n = 2
	}
	times := make([]float64, n)
	step := tEnd / float64(n-1)
	for i := 1; i < n; i++ {
		times[i] = float64(i) * step
	}
	ca, err := Simulate(ctx, p, Condition{T: T, CAStart: caStart, Times: times}, DefaultSolverOptions())
	if err != nil {
		return nil, nil, err
	}
	return times, ca, nil
}

func validateTimes(times []float64) error {
	for i, t := range times {
		if t < 0 {
			return ErrNegativeTime
		}
		if i > 0 && times[i] <= times[i-1] {
			return ErrNonMonotonicTimes
		}
	}
	return nil
}
