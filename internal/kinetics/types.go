package kinetics

import "math"

// NumParams is the dimension of the fitted parameter space.
const NumParams = 4

// ParameterSet holds the four parameters describing the reversible
// reaction A <=> B. LogA is the base-ten logarithm of the Arrhenius
// pre-exponential factor in s^-1, Ea the activation energy in kJ/mol,
// DH the reaction enthalpy in kJ/mol and DS the reaction entropy in
// J/mol/K. DH and DS are treated as temperature independent.
type ParameterSet struct {
	LogA float64
	Ea   float64
	DH   float64
	DS   float64
}

// Vector returns the parameters as a slice in the fixed order
// logA, Ea, dH, dS used everywhere in the fitting path.
func (p ParameterSet) Vector() []float64 {
	return []float64{p.LogA, p.Ea, p.DH, p.DS}
}

// FromVector is the inverse of Vector. It panics on a slice of the
// wrong length since that is always a programming error.
func FromVector(v []float64) ParameterSet {
	if len(v) != NumParams {
		panic("kinetics: parameter vector must have four entries")
	}
	return ParameterSet{LogA: v[0], Ea: v[1], DH: v[2], DS: v[3]}
}

// IsFinite reports whether every field is a finite number.
func (p ParameterSet) IsFinite() bool {
	for _, v := range p.Vector() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Names returns the display names of the parameters, index-aligned
// with Vector.
func Names() []string {
	return []string{"logA", "Ea", "dH", "dS"}
}

// RateCoefficients are the forward and reverse rate coefficients of
// the reaction at a single temperature, both in s^-1.
type RateCoefficients struct {
	Kf float64
	Kr float64
}
