package sde

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// MaxFactors is the largest number of stochastic factors a model may track.
const MaxFactors = 2

// MaxSteps bounds n = round(T/dt), and with it the length of a path.
const MaxSteps = 1_000_000

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Path is a discretized trajectory. States[i] is the state at Times[i] = i*Dt.
type Path struct {
	Dt     float64
	Times  []float64
	States []State
}

func (p *Path) Len() int { return len(p.States) }

func (p *Path) Terminal() State {
	if len(p.States) == 0 {
		return nil
	}
	return p.States[len(p.States)-1]
}

// Factor returns the trajectory of a single factor.
func (p *Path) Factor(k int) []float64 {
	out := make([]float64, len(p.States))
	for i, x := range p.States {
		out[i] = x[k]
	}
	return out
}

// System supplies the coefficients of dX = μ(t, X) dt + σ(t, X) dW.
// Diffusion returns one scale per factor; cross-factor dependence is
// expressed through the model's [Noise].
type System interface {
	Drift(t float64, x State) State
	Diffusion(t float64, x State) State
	Dim() int
}

// Funcs adapts plain coefficient functions to [System].
type Funcs struct {
	N           int
	DriftFn     func(t float64, x State) State
	DiffusionFn func(t float64, x State) State
}

func (f Funcs) Drift(t float64, x State) State     { return f.DriftFn(t, x) }
func (f Funcs) Diffusion(t float64, x State) State { return f.DiffusionFn(t, x) }
func (f Funcs) Dim() int                           { return f.N }

// Stepper advances a state by one step of size dt given the noise vector z.
// Step must return a new State and leave x untouched.
type Stepper interface {
	Step(sys System, x State, t, dt float64, z []float64) State
}

// Observer is notified of every state on a simulated path, including the
// initial one.
type Observer interface {
	OnStep(x State, t float64)
}

// Model is an immutable pricing-scenario configuration.
type Model struct {
	System  System
	X0      State
	Horizon float64
	Dt      float64
	// Noise defaults to independent draws when nil.
	Noise Noise
}

// Steps returns n = round(T/dt).
func (m Model) Steps() int {
	return int(math.Round(m.Horizon / m.Dt))
}

// StepSize returns the effective step T/n.
func (m Model) StepSize() float64 {
	return m.Horizon / float64(m.Steps())
}

func (m Model) noise() Noise {
	if m.Noise == nil {
		return Independent{N: len(m.X0)}
	}
	return m.Noise
}

// Validate checks the model and evaluates the coefficients once at (0, X0).
func (m Model) Validate() error {
	if m.Dt <= 0 || math.IsNaN(m.Dt) || math.IsInf(m.Dt, 0) {
		return configErr("dt", fmt.Sprintf("must be positive, got %g", m.Dt))
	}
	if m.Horizon <= 0 || math.IsNaN(m.Horizon) || math.IsInf(m.Horizon, 0) {
		return configErr("horizon", fmt.Sprintf("must be positive, got %g", m.Horizon))
	}
	if m.Horizon/m.Dt > MaxSteps+0.5 {
		return configErr("dt", fmt.Sprintf("step %g over horizon %g exceeds %d steps", m.Dt, m.Horizon, MaxSteps))
	}
	if m.Steps() < 1 {
		return configErr("dt", fmt.Sprintf("step %g exceeds horizon %g", m.Dt, m.Horizon))
	}
	if m.System == nil {
		return configErr("system", "missing drift/diffusion")
	}

	k := len(m.X0)
	if k == 0 {
		return configErr("initial state", "empty")
	}
	if k > MaxFactors {
		return configErr("initial state", fmt.Sprintf("%d factors, at most %d supported", k, MaxFactors))
	}
	if !m.X0.IsValid() {
		return configErr("initial state", "contains NaN or Inf")
	}
	if d := m.System.Dim(); d != k {
		return configErr("system", fmt.Sprintf("dimension %d does not match initial state %d", d, k))
	}
	if d := m.noise().Dim(); d != k {
		return configErr("noise", fmt.Sprintf("dimension %d does not match initial state %d", d, k))
	}

	if mu := m.System.Drift(0, m.X0); len(mu) != k {
		return configErr("drift", fmt.Sprintf("returned %d components, want %d", len(mu), k))
	}
	if sigma := m.System.Diffusion(0, m.X0); len(sigma) != k {
		return configErr("diffusion", fmt.Sprintf("returned %d components, want %d", len(sigma), k))
	}
	return nil
}

// SqrtAbs returns sqrt(|v|). Square-root diffusions use it because a
// discretized rate or variance can step below zero even though the
// continuous process cannot.
func SqrtAbs(v float64) float64 {
	return math.Sqrt(math.Abs(v))
}

// NewRand returns the random stream for replication idx of a run seeded with
// seed. Streams for distinct (seed, idx) pairs are statistically independent.
func NewRand(seed uint64, idx uint64) *rand.Rand {
	s1 := splitmix64(seed ^ 0x6a09e667f3bcc909)
	s2 := splitmix64(s1 ^ splitmix64(idx+0xbb67ae8584caa73b))
	return rand.New(rand.NewPCG(s1, s2))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
