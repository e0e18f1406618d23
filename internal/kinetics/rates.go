package kinetics

import "math"

// GasConstant is the molar gas constant R in J/mol/K.
const GasConstant = 8.314

// kcFloor bounds the equilibrium constant away from zero. At extreme
// parameter values exp(-dG/RT) underflows, which would otherwise send
// the reverse rate coefficient to +Inf and poison the integrator with
// NaN. The clamp turns that region into a steep but finite penalty.
const kcFloor = 1e-12

// Coefficients evaluates the forward rate coefficient from the
// Arrhenius expression kf = 10^logA * exp(-Ea/RT) and derives the
// reverse coefficient from the equilibrium constant Kc = exp(-dG/RT),
// dG = dH - T*dS. Ea and dH arrive in kJ/mol and are converted to
// J/mol here; that factor of 1000 is load bearing.
//
// Pure function of its arguments, safe for concurrent use.
func Coefficients(p ParameterSet, T float64) (RateCoefficients, error) {
	if T <= 0 {
		return RateCoefficients{}, ErrNonPositiveTemperature
	}
	if !p.IsFinite() {
		return RateCoefficients{}, ErrNonFiniteParameters
	}

	kf := math.Pow(10, p.LogA) * math.Exp(-p.Ea*1e3/(GasConstant*T))

	dG := p.DH*1e3 - T*p.DS
	kc := math.Exp(-dG / (GasConstant * T))
	if kc < kcFloor {
		kc = kcFloor
	}

	return RateCoefficients{Kf: kf, Kr: kf / kc}, nil
}

// EquilibriumConstant returns the clamped concentration-based
// equilibrium constant Kc at temperature T.
func EquilibriumConstant(p ParameterSet, T float64) (float64, error) {
	rc, err := Coefficients(p, T)
	if err != nil {
		return 0, err
	}
	if rc.Kr == 0 {
		return math.Inf(1), nil
	}
	return rc.Kf / rc.Kr, nil
}
