package reactor

import "github.com/san-kum/kinfit/internal/kinetics"

// BatchReactor models an isothermal batch reactor running the
// reversible reaction A <=> B. Only CA is integrated; CB follows from
// the mass balance CB = CAStart - CA, so the state is one dimensional.
type BatchReactor struct {
	CAStart float64
	rates   kinetics.RateCoefficients
}

func NewBatchReactor(p kinetics.ParameterSet, T, caStart float64) (*BatchReactor, error) {
	if caStart < 0 {
		return nil, ErrNegativeConcentration
	}
	rc, err := kinetics.Coefficients(p, T)
	if err != nil {
		return nil, err
	}
	return &BatchReactor{CAStart: caStart, rates: rc}, nil
}

func (b *BatchReactor) Dim() int { return 1 }

// Derivative is dCA/dt = kr*CB - kf*CA.
func (b *BatchReactor) Derivative(x State, t float64) State {
	ca := x[0]
	cb := b.CAStart - ca
	return State{b.rates.Kr*cb - b.rates.Kf*ca}
}

// Rates returns the rate coefficients the reactor was built with.
func (b *BatchReactor) Rates() kinetics.RateCoefficients { return b.rates }

// Equilibrium returns the steady-state concentration of A implied by
// the forward and reverse coefficients, CAStart*kr/(kf+kr).
func (b *BatchReactor) Equilibrium() float64 {
	kf, kr := b.rates.Kf, b.rates.Kr
	if kf+kr == 0 {
		return b.CAStart
	}
	return b.CAStart * kr / (kf + kr)
}
