package sde

import "math/rand/v2"

// Simulator produces discretized paths of a validated [Model].
type Simulator struct {
	model   Model
	noise   Noise
	stepper Stepper
	steps   int
	dt      float64
}

// New validates m and binds it to a discretization scheme. Every
// configuration problem is reported here, before any path is simulated.
func New(m Model, stepper Stepper) (*Simulator, error) {
	if stepper == nil {
		return nil, configErr("stepper", "missing discretization scheme")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.X0 = m.X0.Clone()
	return &Simulator{
		model:   m,
		noise:   m.noise(),
		stepper: stepper,
		steps:   m.Steps(),
		dt:      m.StepSize(),
	}, nil
}

func (s *Simulator) Model() Model { return s.model }

// Steps returns n; a path holds n+1 states.
func (s *Simulator) Steps() int { return s.steps }

// Dt returns the effective step T/n.
func (s *Simulator) Dt() float64 { return s.dt }

// Path simulates one full trajectory using rng for every increment.
func (s *Simulator) Path(rng *rand.Rand, observers ...Observer) *Path {
	path := &Path{
		Dt:     s.dt,
		Times:  make([]float64, s.steps+1),
		States: make([]State, s.steps+1),
	}

	x := s.model.X0.Clone()
	path.States[0] = x
	notify(observers, x, 0)

	var buf [MaxFactors]float64
	z := buf[:len(x)]
	for i := 1; i <= s.steps; i++ {
		t := float64(i-1) * s.dt
		s.noise.Draw(rng, z)
		x = s.stepper.Step(s.model.System, x, t, s.dt, z)

		path.Times[i] = float64(i) * s.dt
		path.States[i] = x
		notify(observers, x, path.Times[i])
	}

	return path
}

// Terminal simulates one trajectory and returns only X(t_n). It consumes
// the random stream exactly like [Simulator.Path], so both produce the same
// terminal state for the same rng.
func (s *Simulator) Terminal(rng *rand.Rand, observers ...Observer) State {
	x := s.model.X0.Clone()
	notify(observers, x, 0)

	var buf [MaxFactors]float64
	z := buf[:len(x)]
	for i := 1; i <= s.steps; i++ {
		t := float64(i-1) * s.dt
		s.noise.Draw(rng, z)
		x = s.stepper.Step(s.model.System, x, t, s.dt, z)
		notify(observers, x, float64(i)*s.dt)
	}

	return x
}

func notify(observers []Observer, x State, t float64) {
	for _, o := range observers {
		o.OnStep(x, t)
	}
}
