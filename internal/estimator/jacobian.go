package estimator

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/kinfit/internal/kinetics"
)

// jacobian builds the m x 4 forward-difference Jacobian of the
// residual vector at x, reusing the already-evaluated r0 = r(x).
// Columns are evaluated concurrently; each goroutine owns one column,
// so assembly is deterministic regardless of scheduling.
func (f *Fitter) jacobian(ctx context.Context, x, r0 []float64) (*mat.Dense, error) {
	m := len(r0)
	J := mat.NewDense(m, kinetics.NumParams, nil)

	g, ctx := errgroup.WithContext(ctx)
	for j := 0; j < kinetics.NumParams; j++ {
		g.Go(func() error {
			h := f.opts.FDStep * math.Max(math.Abs(x[j]), 1)

			xp := append([]float64(nil), x...)
			xp[j] += h

			rp, err := f.engine.Residuals(ctx, kinetics.FromVector(xp))
			if err != nil {
				return err
			}
			for k := 0; k < m; k++ {
				J.Set(k, j, (rp[k]-r0[k])/h)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return J, nil
}

// jtj computes the normal matrix A = JtJ.
func jtj(J *mat.Dense) *mat.SymDense {
	m, n := J.Dims()
	a := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s := 0.0
			for k := 0; k < m; k++ {
				s += J.At(k, i) * J.At(k, j)
			}
			a.SetSym(i, j, s)
		}
	}
	return a
}

// negGrad computes -Jtr, the right-hand side of the damped solve.
func negGrad(J *mat.Dense, r []float64) *mat.VecDense {
	m, n := J.Dims()
	g := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		s := 0.0
		for k := 0; k < m; k++ {
			s += J.At(k, i) * r[k]
		}
		g.SetVec(i, -s)
	}
	return g
}
