package estimator

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/kinfit/internal/kinetics"
)

// covariance estimates the parameter covariance sigma^2 * (JtJ)^-1
// with sigma^2 = SSR/(nObs - nParams), and the per-parameter standard
// errors from its diagonal. A singular JtJ or dof <= 0 yields a nil
// covariance and +Inf standard errors for every parameter.
func covariance(J *mat.Dense, ssr float64, nObs int) (*mat.SymDense, kinetics.ParameterSet) {
	undefined := kinetics.FromVector([]float64{
		math.Inf(1), math.Inf(1), math.Inf(1), math.Inf(1),
	})

	dof := nObs - kinetics.NumParams
	if dof <= 0 {
		return nil, undefined
	}

	a := jtj(J)

	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return nil, undefined
	}

	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, undefined
	}

	sigma2 := ssr / float64(dof)

	n := kinetics.NumParams
	cov := mat.NewSymDense(n, nil)
	cov.ScaleSym(sigma2, &inv)

	se := make([]float64, n)
	for i := 0; i < n; i++ {
		se[i] = math.Sqrt(cov.At(i, i))
	}
	return cov, kinetics.FromVector(se)
}
