package models

import "github.com/san-kum/mcprice/internal/sde"

// GBM is dS = r S dt + σ S dW.
type GBM struct {
	Rate float64
	Vol  float64
	S0   float64
}

func NewGBM(rate, vol, s0 float64) *GBM {
	return &GBM{Rate: rate, Vol: vol, S0: s0}
}

func (m *GBM) Dim() int { return 1 }

func (m *GBM) Drift(t float64, x sde.State) sde.State {
	return sde.State{m.Rate * x[PriceFactor]}
}

func (m *GBM) Diffusion(t float64, x sde.State) sde.State {
	return sde.State{m.Vol * x[PriceFactor]}
}

func (m *GBM) Model(horizon, dt float64) (sde.Model, error) {
	return sde.Model{
		System:  m,
		X0:      sde.State{m.S0},
		Horizon: horizon,
		Dt:      dt,
	}, nil
}

func (m *GBM) GetParams() map[string]float64 {
	return map[string]float64{
		"rate": m.Rate,
		"vol":  m.Vol,
		"s0":   m.S0,
	}
}

func (m *GBM) SetParam(name string, value float64) error {
	switch name {
	case "rate":
		m.Rate = value
	case "vol":
		m.Vol = value
	case "s0":
		m.S0 = value
	default:
		return unknownParam("gbm", name)
	}
	return nil
}
