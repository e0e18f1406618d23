package report

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/kinfit/internal/catalog"
)

// Overlay charts observed and fitted CA for one experiment on the
// experiment's own time grid.
func Overlay(exp catalog.Experiment, fitted []float64, width, height int) string {
	if width <= 0 {
		width = 60
	}
	if height <= 0 {
		height = 10
	}
	return asciigraph.PlotMany(
		[][]float64{exp.CA, fitted},
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("T=%.2f K, cA0=%.1f mol/L", exp.T, exp.CAStart)),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green),
		asciigraph.SeriesLegends("observed", "fitted"),
	)
}

// Curve charts a single simulated trajectory.
func Curve(ca []float64, caption string, width, height int) string {
	if width <= 0 {
		width = 60
	}
	if height <= 0 {
		height = 10
	}
	return asciigraph.Plot(ca,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
}
