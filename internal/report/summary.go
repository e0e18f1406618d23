package report

import (
	"errors"
	"math"

	"github.com/montanaflynn/stats"
)

var ErrNoResiduals = errors.New("report: empty residual vector")

// ResidualSummary aggregates the stacked residual vector after a fit.
type ResidualSummary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	RMSE   float64
}

func Summarize(residuals []float64) (ResidualSummary, error) {
	if len(residuals) == 0 {
		return ResidualSummary{}, ErrNoResiduals
	}

	mean, err := stats.Mean(residuals)
	if err != nil {
		return ResidualSummary{}, err
	}
	sd, err := stats.StandardDeviation(residuals)
	if err != nil {
		return ResidualSummary{}, err
	}
	min, err := stats.Min(residuals)
	if err != nil {
		return ResidualSummary{}, err
	}
	max, err := stats.Max(residuals)
	if err != nil {
		return ResidualSummary{}, err
	}

	ss := 0.0
	for _, r := range residuals {
		ss += r * r
	}

	return ResidualSummary{
		Mean:   mean,
		StdDev: sd,
		Min:    min,
		Max:    max,
		RMSE:   math.Sqrt(ss / float64(len(residuals))),
	}, nil
}
