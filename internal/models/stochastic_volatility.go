package models

import "github.com/san-kum/mcprice/internal/sde"

const (
	PriceFactor    = 0
	VarianceFactor = 1
)

// StochasticVolatility is the two-factor model
//
//	dS = r S dt + sqrt(V) S dW1
//	dV = a(b - V) dt + σ sqrt(V) dW2,  corr(dW1, dW2) = ρ
type StochasticVolatility struct {
	Rate     float64 // r
	Speed    float64 // a
	Level    float64 // b
	VolOfVar float64 // σ
	Rho      float64
	S0       float64
	V0       float64
}

func NewStochasticVolatility(rate, speed, level, volOfVar, rho, s0, v0 float64) *StochasticVolatility {
	return &StochasticVolatility{
		Rate:     rate,
		Speed:    speed,
		Level:    level,
		VolOfVar: volOfVar,
		Rho:      rho,
		S0:       s0,
		V0:       v0,
	}
}

func (m *StochasticVolatility) Dim() int { return 2 }

func (m *StochasticVolatility) Drift(t float64, x sde.State) sde.State {
	return sde.State{
		m.Rate * x[PriceFactor],
		m.Speed * (m.Level - x[VarianceFactor]),
	}
}

func (m *StochasticVolatility) Diffusion(t float64, x sde.State) sde.State {
	vol := sde.SqrtAbs(x[VarianceFactor])
	return sde.State{
		vol * x[PriceFactor],
		m.VolOfVar * vol,
	}
}

// Model factors the 2×2 correlation matrix once; the factor is shared by
// every step of every replication.
func (m *StochasticVolatility) Model(horizon, dt float64) (sde.Model, error) {
	noise, err := sde.Pair(m.Rho)
	if err != nil {
		return sde.Model{}, err
	}
	return sde.Model{
		System:  m,
		X0:      sde.State{m.S0, m.V0},
		Horizon: horizon,
		Dt:      dt,
		Noise:   noise,
	}, nil
}

func (m *StochasticVolatility) GetParams() map[string]float64 {
	return map[string]float64{
		"rate":       m.Rate,
		"speed":      m.Speed,
		"level":      m.Level,
		"vol_of_var": m.VolOfVar,
		"rho":        m.Rho,
		"s0":         m.S0,
		"v0":         m.V0,
	}
}

func (m *StochasticVolatility) SetParam(name string, value float64) error {
	switch name {
	case "rate":
		m.Rate = value
	case "speed":
		m.Speed = value
	case "level":
		m.Level = value
	case "vol_of_var":
		m.VolOfVar = value
	case "rho":
		m.Rho = value
	case "s0":
		m.S0 = value
	case "v0":
		m.V0 = value
	default:
		return unknownParam("stochastic volatility", name)
	}
	return nil
}
