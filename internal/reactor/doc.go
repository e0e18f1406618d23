// Package reactor simulates an isothermal batch reactor running the
// reversible first-order reaction A <=> B.
//
// The state is one dimensional: only CA is integrated, CB follows from
// the mass balance CB = CAStart - CA. Core pieces:
//
//   - [BatchReactor]: the ODE dCA/dt = kr*CB - kf*CA
//   - [DormandPrince]: adaptive embedded RK45 stepper
//   - [Simulate]: integrates a [Condition] and samples CA at exactly
//     the requested times
//
// # Example
//
//	p := kinetics.ParameterSet{LogA: 6.9, Ea: 49, DH: -13, DS: -42}
//	ca, err := reactor.Simulate(ctx, p, reactor.Condition{
//		T: 298.15, CAStart: 10, Times: []float64{10, 50, 100},
//	}, reactor.DefaultSolverOptions())
//
// Solver failures surface as a typed [IntegrationError] rather than
// NaN entries in the output.
package reactor
