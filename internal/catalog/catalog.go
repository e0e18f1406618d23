package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoExperiments          = errors.New("catalog: no experiments")
	ErrNonPositiveTemperature = errors.New("catalog: temperature must be positive")
	ErrNegativeConcentration  = errors.New("catalog: starting concentration must be non-negative")
	ErrLengthMismatch         = errors.New("catalog: times and ca must have the same length")
	ErrNoSamples              = errors.New("catalog: experiment has no samples")
	ErrNonMonotonicTimes      = errors.New("catalog: times must be strictly increasing")
	ErrNonPositiveTime        = errors.New("catalog: sample times must be positive")
)

// Experiment is a single isothermal batch run: observed CA at each
// sample time. Records are created once from measured data and never
// mutated afterwards.
type Experiment struct {
	T       float64   `yaml:"temperature"`
	CAStart float64   `yaml:"ca_start"`
	Times   []float64 `yaml:"times"`
	CA      []float64 `yaml:"ca"`
}

func (e Experiment) Validate() error {
	if e.T <= 0 {
		return ErrNonPositiveTemperature
	}
	if e.CAStart < 0 {
		return ErrNegativeConcentration
	}
	if len(e.Times) == 0 {
		return ErrNoSamples
	}
	if len(e.Times) != len(e.CA) {
		return ErrLengthMismatch
	}
	for i, t := range e.Times {
		if t <= 0 {
			return ErrNonPositiveTime
		}
		if i > 0 && t <= e.Times[i-1] {
			return ErrNonMonotonicTimes
		}
	}
	return nil
}

// Catalog is an ordered set of experiments. The order is part of the
// contract: residual vectors are concatenated in catalog order.
type Catalog struct {
	Experiments []Experiment `yaml:"experiments"`
}

func (c *Catalog) Validate() error {
	if len(c.Experiments) == 0 {
		return ErrNoExperiments
	}
	for i, e := range c.Experiments {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("experiment %d: %w", i, err)
		}
	}
	return nil
}

// NumObservations is the total number of (experiment, time) samples,
// which is also the length of the stacked residual vector.
func (c *Catalog) NumObservations() int {
	n := 0
	for _, e := range c.Experiments {
		n += len(e.Times)
	}
	return n
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Catalog) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
