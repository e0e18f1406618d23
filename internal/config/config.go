package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/kinfit/internal/estimator"
	"github.com/san-kum/kinfit/internal/reactor"
	"github.com/san-kum/kinfit/internal/residual"
)

const (
	DefaultMaxIterations = 200
	DefaultCostTol       = 1e-10
	DefaultStepTol       = 1e-10
	DefaultFDStep        = 1e-6
	DefaultRTol          = 1e-8
	DefaultATol          = 1e-10
	DefaultPenalty       = 1e6
	DefaultSamples       = 50
	DefaultSeed          = 1
)

// Config holds every tunable of a fit run. A YAML file overrides the
// defaults field by field.
type Config struct {
	Catalog string `yaml:"catalog"` // path to a catalog file; empty = built-in reference data

	MaxIterations int     `yaml:"max_iterations"`
	CostTol       float64 `yaml:"cost_tol"`
	StepTol       float64 `yaml:"step_tol"`
	FDStep        float64 `yaml:"fd_step"`

	RTol    float64 `yaml:"rtol"`
	ATol    float64 `yaml:"atol"`
	Penalty float64 `yaml:"penalty"`
	Workers int     `yaml:"workers"`

	Samples int    `yaml:"samples"` // sensitivity screening draws per parameter
	Seed    uint64 `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		MaxIterations: DefaultMaxIterations,
		CostTol:       DefaultCostTol,
		StepTol:       DefaultStepTol,
		FDStep:        DefaultFDStep,
		RTol:          DefaultRTol,
		ATol:          DefaultATol,
		Penalty:       DefaultPenalty,
		Samples:       DefaultSamples,
		Seed:          DefaultSeed,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EstimatorOptions maps the config onto the solver knobs.
func (c *Config) EstimatorOptions() estimator.Options {
	opts := estimator.DefaultOptions()
	opts.MaxIterations = c.MaxIterations
	opts.CostTol = c.CostTol
	opts.StepTol = c.StepTol
	opts.FDStep = c.FDStep
	return opts
}

// EngineConfig maps the config onto the residual engine.
func (c *Config) EngineConfig() residual.Config {
	ec := residual.DefaultConfig()
	solver := reactor.DefaultSolverOptions()
	solver.RTol = c.RTol
	solver.ATol = c.ATol
	ec.Solver = solver
	ec.Penalty = c.Penalty
	if c.Workers > 0 {
		ec.Workers = c.Workers
	}
	return ec
}
