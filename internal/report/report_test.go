package report

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/kinfit/internal/catalog"
	"github.com/san-kum/kinfit/internal/estimator"
	"github.com/san-kum/kinfit/internal/kinetics"
)

func sampleResult() *estimator.Result {
	return &estimator.Result{
		Estimate:      kinetics.ParameterSet{LogA: 6.9, Ea: 49, DH: -13, DS: -42},
		StandardError: kinetics.ParameterSet{LogA: 0.1, Ea: 1.2, DH: 0.8, DS: 2.5},
		Status:        estimator.StatusConverged,
		Iterations:    18,
		SSR:           1.2,
		Observations:  30,
		DOF:           26,
	}
}

func TestWriteComparison(t *testing.T) {
	res := sampleResult()
	truth := catalog.TrueParameters()

	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, catalog.StartingGuess(), &truth, res))
	out := buf.String()

	assert.Contains(t, out, "logA")
	assert.Contains(t, out, "starting_guess")
	assert.Contains(t, out, "true_params")
	assert.Contains(t, out, "optimized_parameters")
	assert.Contains(t, out, "standard_errors")
	assert.Contains(t, out, "6.9000")
	assert.Contains(t, out, "-42.0000")
}

func TestWriteComparisonWithoutTruth(t *testing.T) {
	res := sampleResult()

	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, catalog.StartingGuess(), nil, res))
	out := buf.String()

	assert.NotContains(t, out, "true_params")
	assert.NotContains(t, out, "discrepancy")
}

func TestWriteComparisonUndefinedErrors(t *testing.T) {
	res := sampleResult()
	res.StandardError = kinetics.FromVector([]float64{
		math.Inf(1), math.Inf(1), math.Inf(1), math.Inf(1),
	})
	truth := catalog.TrueParameters()

	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, catalog.StartingGuess(), &truth, res))
	out := buf.String()

	assert.Contains(t, out, "undefined")
	// Discrepancy against infinite errors is meaningless and omitted.
	assert.NotContains(t, out, "discrepancy")
}

func TestWriteStatus(t *testing.T) {
	var buf bytes.Buffer

	res := sampleResult()
	res.Covariance = nil
	WriteStatus(&buf, res)
	assert.Contains(t, buf.String(), "undefined")

	buf.Reset()
	res.Status = estimator.StatusMaxIterations
	WriteStatus(&buf, res)
	assert.Contains(t, buf.String(), "did not converge")
	assert.Contains(t, buf.String(), "iteration budget exhausted")

	buf.Reset()
	res.Status = estimator.StatusCanceled
	WriteStatus(&buf, res)
	assert.Contains(t, buf.String(), "canceled")
}

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{-1, 0, 1})
	require.NoError(t, err)

	assert.InDelta(t, 0, s.Mean, 1e-12)
	assert.Equal(t, -1.0, s.Min)
	assert.Equal(t, 1.0, s.Max)
	assert.InDelta(t, math.Sqrt(2.0/3.0), s.RMSE, 1e-12)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil)
	assert.ErrorIs(t, err, ErrNoResiduals)
}

func TestOverlay(t *testing.T) {
	exp := catalog.Reference().Experiments[0]
	fitted := make([]float64, len(exp.CA))
	copy(fitted, exp.CA)

	out := Overlay(exp, fitted, 40, 8)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "T=298.15")
}

func TestCurve(t *testing.T) {
	out := Curve([]float64{10, 8, 6, 5, 4.6}, "decay", 40, 8)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "decay")
}
