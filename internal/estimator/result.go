package estimator

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/kinfit/internal/kinetics"
)

// Status labels how a fit ended. Anything other than StatusConverged
// marks the estimate as unreliable; it is never silently presented as
// a success.
type Status int

const (
	StatusConverged Status = iota
	StatusMaxIterations
	StatusCanceled

	// StatusStalled means the damped normal equations never factorized
	// at any damping value, typically because the residuals sit on a
	// flat penalty plateau where the Jacobian is identically zero. The
	// point is not a verified minimum.
	StatusStalled
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusMaxIterations:
		return "iteration budget exhausted"
	case StatusCanceled:
		return "canceled"
	case StatusStalled:
		return "stalled on a singular model"
	default:
		return "unknown"
	}
}

// Result is the outcome of a fit. Covariance is sigma^2 * (JtJ)^-1 at
// the optimum; it is nil, with +Inf standard errors, when JtJ is
// singular or there are no spare degrees of freedom. That case is
// explicit rather than a spurious finite number.
type Result struct {
	Estimate      kinetics.ParameterSet
	StandardError kinetics.ParameterSet
	Covariance    *mat.SymDense

	// Residuals is the stacked residual vector at the final estimate,
	// in the engine's fixed experiment/time order.
	Residuals []float64

	Status       Status
	Iterations   int
	SSR          float64
	Observations int
	DOF          int
}

func (r *Result) Converged() bool { return r.Status == StatusConverged }

// WellDetermined reports whether every standard error is finite, i.e.
// the covariance was invertible with positive degrees of freedom.
func (r *Result) WellDetermined() bool {
	for _, v := range r.StandardError.Vector() {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return r.Covariance != nil
}

// Discrepancy returns (fitted - truth) / stderr per parameter, the
// grading metric used against data of known provenance.
func (r *Result) Discrepancy(truth kinetics.ParameterSet) kinetics.ParameterSet {
	est := r.Estimate.Vector()
	se := r.StandardError.Vector()
	tv := truth.Vector()
	d := make([]float64, kinetics.NumParams)
	for i := range d {
		d[i] = (est[i] - tv[i]) / se[i]
	}
	return kinetics.FromVector(d)
}
