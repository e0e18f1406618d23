package catalog

import "github.com/san-kum/kinfit/internal/kinetics"

// Reference returns the three laboratory runs the fitting exercise
// ships with: the same reaction sampled every 10 s for 100 s at three
// bath temperatures, all starting from CA = 10 mol/L and no B.
func Reference() *Catalog {
	return &Catalog{
		Experiments: []Experiment{
			{
				T:       298.15,
				CAStart: 10.0,
				Times:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
				CA:      []float64{8.649, 7.441, 7.141, 6.366, 6.215, 5.990, 5.852, 5.615, 5.481, 5.644},
			},
			{
				T:       308.15,
				CAStart: 10.0,
				Times:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
				CA:      []float64{7.230, 6.073, 5.452, 5.317, 5.121, 4.998, 4.951, 4.978, 5.015, 5.036},
			},
			{
				T:       323.15,
				CAStart: 10.0,
				Times:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
				CA:      []float64{5.137, 4.568, 4.548, 4.461, 4.382, 4.525, 4.483, 4.565, 4.459, 4.635},
			},
		},
	}
}

// StartingGuess is the initial estimate from a literature search,
// quantum chemistry calculations and prior experience.
func StartingGuess() kinetics.ParameterSet {
	return kinetics.ParameterSet{LogA: 6, Ea: 45, DH: -10, DS: -50}
}

// TrueParameters generated the reference data and exist only to grade
// a fit against; they are never an input to the estimator.
func TrueParameters() kinetics.ParameterSet {
	return kinetics.ParameterSet{LogA: 6.9, Ea: 49, DH: -13, DS: -42}
}
