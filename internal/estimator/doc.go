// Package estimator fits the four reaction parameters to a catalog of
// experiments by damped least squares.
//
//   - [Fitter]: Levenberg-Marquardt loop over a residual engine
//   - [Options]: stopping criteria and damping schedule
//   - [Result]: estimate, standard errors, covariance and a [Status]
//     labeling how the solve ended
//
// The solve is deterministic: given the same guess and data it walks
// the same path every time. Cancel the context to stop early with the
// best point found so far.
package estimator
