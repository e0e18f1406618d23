package residual

import (
	"context"
	"errors"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/kinfit/internal/catalog"
	"github.com/san-kum/kinfit/internal/kinetics"
	"github.com/san-kum/kinfit/internal/reactor"
)

// DefaultPenalty replaces every residual of an experiment whose
// integration fails: large enough to push the optimizer away from the
// offending parameter region, finite so the solve keeps going.
const DefaultPenalty = 1e6

var ErrWeightShape = errors.New("residual: weights must mirror the experiment time grids")

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	Solver  reactor.SolverOptions
	Penalty float64
	Workers int

	// Weights holds optional per-point weights, one slice per
	// experiment, parallel to its time grid. Each residual is scaled
	// by sqrt(w) so a weight multiplies the squared residual. Nil
	// means unweighted (all ones).
	Weights [][]float64
}

func DefaultConfig() Config {
	return Config{
		Solver:  reactor.DefaultSolverOptions(),
		Penalty: DefaultPenalty,
		Workers: runtime.NumCPU(),
	}
}

// Engine stacks (predicted - observed) residuals across a catalog of
// experiments into a single vector with a fixed index mapping:
// experiments in catalog order, samples in time order within each.
type Engine struct {
	experiments []catalog.Experiment
	weights     [][]float64
	solver      reactor.SolverOptions
	penalty     float64
	workers     int
}

func NewEngine(c *catalog.Catalog, cfg Config) (*Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if cfg.Weights != nil {
		if len(cfg.Weights) != len(c.Experiments) {
			return nil, ErrWeightShape
		}
		for i, w := range cfg.Weights {
			if len(w) != len(c.Experiments[i].Times) {
				return nil, ErrWeightShape
			}
		}
	}
	def := DefaultConfig()
	if cfg.Penalty <= 0 {
		cfg.Penalty = def.Penalty
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.Solver == (reactor.SolverOptions{}) {
		cfg.Solver = def.Solver
	}
	return &Engine{
		experiments: c.Experiments,
		weights:     cfg.Weights,
		solver:      cfg.Solver,
		penalty:     cfg.Penalty,
		workers:     cfg.Workers,
	}, nil
}

// Size returns the residual vector length.
func (e *Engine) Size() int {
	n := 0
	for _, exp := range e.experiments {
		n += len(exp.Times)
	}
	return n
}

// Experiments exposes the catalog order the residual index mapping is
// built on.
func (e *Engine) Experiments() []catalog.Experiment { return e.experiments }

// Residuals evaluates the stacked residual vector at p. Experiments
// integrate concurrently, but each writes into its own slot, so the
// concatenation order never depends on goroutine scheduling: the
// covariance math downstream assumes a stable index mapping.
//
// Integration failures are absorbed as penalty entries; domain errors
// and context cancellation propagate.
func (e *Engine) Residuals(ctx context.Context, p kinetics.ParameterSet) ([]float64, error) {
	blocks := make([][]float64, len(e.experiments))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, exp := range e.experiments {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			cond := reactor.Condition{T: exp.T, CAStart: exp.CAStart, Times: exp.Times}
			pred, err := reactor.Simulate(ctx, p, cond, e.solver)
			if err != nil {
				var ie *reactor.IntegrationError
				if errors.As(err, &ie) {
					block := make([]float64, len(exp.Times))
					for j := range block {
						block[j] = e.penalty
					}
					blocks[i] = block
					return nil
				}
				return err
			}

			block := make([]float64, len(exp.Times))
			for j := range pred {
				r := pred[j] - exp.CA[j]
				if e.weights != nil {
					r *= math.Sqrt(e.weights[i][j])
				}
				block[j] = r
			}
			blocks[i] = block
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]float64, 0, e.Size())
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out, nil
}

// SumSquares is the scalar cost the estimator minimizes.
func SumSquares(r []float64) float64 {
	s := 0.0
	for _, v := range r {
		s += v * v
	}
	return s
}
