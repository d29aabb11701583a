// Package models provides the stochastic models priced by mcprice.
//
// Each model implements [sde.System] and builds an [sde.Model] for a given
// horizon and step size:
//
//   - [SquareRootRate]: mean-reverting square-root short rate
//   - [StochasticVolatility]: asset price whose variance follows a
//     square-root process correlated with the price
//   - [GBM]: geometric Brownian motion
//
// Square-root diffusions use [sde.SqrtAbs], so a discretized rate or
// variance that steps below zero keeps producing finite paths.
//
// Models also expose their parameters by name through GetParams and
// SetParam for configuration overrides.
package models
