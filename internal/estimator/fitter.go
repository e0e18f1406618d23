package estimator

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/kinfit/internal/kinetics"
	"github.com/san-kum/kinfit/internal/residual"
)

// Fitter runs a Levenberg-Marquardt least-squares solve over the four
// reaction parameters against a residual engine. The solve draws no
// random numbers: given the same guess and data it walks the same path
// every time.
type Fitter struct {
	engine *residual.Engine
	opts   Options
}

func New(engine *residual.Engine, opts Options) *Fitter {
	def := DefaultOptions()
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = def.MaxIterations
	}
	if opts.CostTol <= 0 {
		opts.CostTol = def.CostTol
	}
	if opts.StepTol <= 0 {
		opts.StepTol = def.StepTol
	}
	if opts.FDStep <= 0 {
		opts.FDStep = def.FDStep
	}
	if opts.Lambda0 <= 0 {
		opts.Lambda0 = def.Lambda0
	}
	if opts.LambdaUp <= 1 {
		opts.LambdaUp = def.LambdaUp
	}
	if opts.LambdaDown <= 0 || opts.LambdaDown >= 1 {
		opts.LambdaDown = def.LambdaDown
	}
	if opts.LambdaMax <= 0 {
		opts.LambdaMax = def.LambdaMax
	}
	return &Fitter{engine: engine, opts: opts}
}

// Fit minimizes the sum of squared residuals starting from guess.
// Cancellation (or a deadline on ctx) ends the solve early with the
// best point found so far and StatusCanceled; it is not an error.
func (f *Fitter) Fit(ctx context.Context, guess kinetics.ParameterSet) (*Result, error) {
	nObs := f.engine.Size()

	res := &Result{
		Estimate:     guess,
		Status:       StatusMaxIterations,
		Observations: nObs,
		DOF:          nObs - kinetics.NumParams,
	}
	res.StandardError = kinetics.FromVector([]float64{
		math.Inf(1), math.Inf(1), math.Inf(1), math.Inf(1),
	})

	x := guess.Vector()
	r, err := f.engine.Residuals(ctx, guess)
	if err != nil {
		if isCanceled(err) {
			res.Status = StatusCanceled
			return res, nil
		}
		return nil, err
	}
	cost := residual.SumSquares(r)
	res.SSR = cost
	if cost == 0 {
		res.Status = StatusConverged
	}

	lambda := f.opts.Lambda0

loop:
	for iter := 1; iter <= f.opts.MaxIterations; iter++ {
		res.Iterations = iter

		if ctx.Err() != nil {
			res.Status = StatusCanceled
			break
		}

		J, err := f.jacobian(ctx, x, r)
		if err != nil {
			if isCanceled(err) {
				res.Status = StatusCanceled
				break
			}
			return nil, err
		}

		a := jtj(J)
		g := negGrad(J, r)

		accepted := false
		factorized := false
		for lambda <= f.opts.LambdaMax {
			delta, ok := solveDamped(a, g, lambda)
			if !ok {
				lambda *= f.opts.LambdaUp
				continue
			}
			factorized = true

			xNew := make([]float64, len(x))
			for i := range x {
				xNew[i] = x[i] + delta.AtVec(i)
			}

			rNew, err := f.engine.Residuals(ctx, kinetics.FromVector(xNew))
			if err != nil {
				if isCanceled(err) {
					res.Status = StatusCanceled
					break loop
				}
				return nil, err
			}
			costNew := residual.SumSquares(rNew)

			if costNew < cost {
				drop := (cost - costNew) / math.Max(cost, math.SmallestNonzeroFloat64)
				step := mat.Norm(delta, 2)
				xNorm := norm(xNew)

				x, r, cost = xNew, rNew, costNew
				res.Estimate = kinetics.FromVector(x)
				res.SSR = cost
				lambda = math.Max(lambda*f.opts.LambdaDown, 1e-12)
				accepted = true

				if f.opts.Progress != nil {
					f.opts.Progress(ProgressUpdate{
						Iteration: iter,
						Cost:      cost,
						Lambda:    lambda,
						Params:    res.Estimate,
					})
				}

				if drop < f.opts.CostTol || step < f.opts.StepTol*(xNorm+f.opts.StepTol) {
					res.Status = StatusConverged
				}
				break
			}
			lambda *= f.opts.LambdaUp
		}

		// No descent direction at any damping up to the cap: the
		// current point is the minimum as far as this model can tell.
		// If the normal equations never even factorized there is no
		// model to tell anything, so that case is labeled a stall.
		if !accepted {
			if factorized {
				res.Status = StatusConverged
			} else {
				res.Status = StatusStalled
			}
			break
		}
		if res.Status == StatusConverged {
			break
		}
	}

	res.Residuals = append([]float64(nil), r...)

	// Covariance from a fresh Jacobian at the final point. Skipped on
	// cancellation half-way; the +Inf placeholders stay in that case.
	if res.Status != StatusCanceled {
		if J, err := f.jacobian(context.WithoutCancel(ctx), x, r); err == nil {
			res.Covariance, res.StandardError = covariance(J, cost, nObs)
		}
	}

	return res, nil
}

func solveDamped(a *mat.SymDense, g *mat.VecDense, lambda float64) (*mat.VecDense, bool) {
	n, _ := a.Dims()

	damped := mat.NewSymDense(n, nil)
	damped.CopySym(a)
	for i := 0; i < n; i++ {
		damped.SetSym(i, i, a.At(i, i)*(1+lambda))
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(damped); !ok {
		return nil, false
	}

	delta := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(delta, g); err != nil {
		return nil, false
	}
	return delta, true
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func norm(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}
