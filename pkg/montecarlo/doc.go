// Package montecarlo estimates definite integrals of one-dimensional functions by random sampling.
//
// Two estimators are provided:
//
//   - MeanValue: (b-a) times the sample mean of f over uniform draws in [a, b]. The full
//     sequence of partial estimates is kept so convergence can be inspected.
//   - HitOrMiss: the fraction of uniform points in the rectangle [a, b] x [0, max f] that lie
//     on or under the curve, scaled by the rectangle area.
//
// Results can be compared against the analytical integral of a Polynomial and against
// Gauss-Legendre quadrature (Quadrature). Compare and ConvergenceRate run the mean-value
// estimator over several sample sizes; the root-mean-square error is expected to shrink
// as n^-0.5.
//
// All randomness comes from the rand.Source given by the caller; NewSource builds a
// seeded PCG source so that runs are reproducible.
package montecarlo
