// Package sde provides the path simulation primitives for stochastic
// differential equations.
//
// The package defines the types needed to discretize an SDE of the form
// dX = μ(t, X) dt + σ(t, X) dW:
//
//   - [State]: vector holding one scalar per stochastic factor
//   - [Path]: discretized trajectory X(t_0), ..., X(t_n)
//   - [System]: drift and per-factor diffusion coefficients
//   - [Noise]: source of (optionally correlated) standard normal increments
//   - [Stepper]: one-step discretization scheme
//   - [Simulator]: validates a [Model] and produces paths
//
// # Example
//
//	rate := models.NewSquareRootRate(0.2, 0.09, 0.05, 0.06)
//	m, err := rate.Model(1.0, 0.01)
//	sim, err := sde.New(m, integrators.NewEulerMaruyama())
//	path := sim.Path(sde.NewRand(seed, 0))
//
// # Thread Safety
//
// A validated [Simulator] holds no mutable state and may be shared by any
// number of goroutines, provided each goroutine brings its own random source.
// Observers passed to [Simulator.Path] and [Simulator.Terminal] are invoked
// on the calling goroutine only.
package sde
