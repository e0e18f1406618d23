package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/kinfit/internal/estimator"
	"github.com/san-kum/kinfit/internal/kinetics"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// WriteComparison renders the comparison table the exercise ends with:
// starting guess, true parameters when known, fitted values, standard
// errors, and the discrepancy (fitted-true)/stderr. truth may be nil
// for real data of unknown provenance.
func WriteComparison(w io.Writer, guess kinetics.ParameterSet, truth *kinetics.ParameterSet, res *estimator.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "%s", headerStyle.Render("parameter"))
	for _, n := range kinetics.Names() {
		fmt.Fprintf(tw, "\t%s", headerStyle.Render(n))
	}
	fmt.Fprintln(tw)

	writeRow(tw, "starting_guess", guess.Vector())
	if truth != nil {
		writeRow(tw, "true_params", truth.Vector())
	}
	writeRow(tw, "optimized_parameters", res.Estimate.Vector())
	writeRow(tw, "standard_errors", res.StandardError.Vector())
	if truth != nil && res.WellDetermined() {
		writeRow(tw, "discrepancy", res.Discrepancy(*truth).Vector())
	}

	return tw.Flush()
}

func writeRow(w io.Writer, label string, vals []float64) {
	fmt.Fprintf(w, "%s", labelStyle.Render(label))
	for _, v := range vals {
		fmt.Fprintf(w, "\t%s", formatValue(v))
	}
	fmt.Fprintln(w)
}

func formatValue(v float64) string {
	if math.IsInf(v, 0) {
		return "undefined"
	}
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", v)
}

// WriteStatus prints a one-line verdict that distinguishes a converged
// fit with well-determined errors from the two failure labels.
func WriteStatus(w io.Writer, res *estimator.Result) {
	switch {
	case !res.Converged():
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf(
			"fit did not converge (%s after %d iterations); estimate is unreliable",
			res.Status, res.Iterations)))
	case !res.WellDetermined():
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf(
			"fit converged in %d iterations but some parameter errors are undefined (singular covariance)",
			res.Iterations)))
	default:
		fmt.Fprintln(w, okStyle.Render(fmt.Sprintf(
			"fit converged in %d iterations with well-determined errors (SSR=%.5g, dof=%d)",
			res.Iterations, res.SSR, res.DOF)))
	}
}
