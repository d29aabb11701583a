package models

import "github.com/san-kum/mcprice/internal/sde"

// RateFactor is the state index of the short rate.
const RateFactor = 0

// SquareRootRate is dr = a(b - r) dt + σ sqrt(r) dW.
type SquareRootRate struct {
	Speed float64 // a
	Level float64 // b
	Vol   float64 // σ
	R0    float64
}

func NewSquareRootRate(speed, level, vol, r0 float64) *SquareRootRate {
	return &SquareRootRate{
		Speed: speed,
		Level: level,
		Vol:   vol,
		R0:    r0,
	}
}

func (m *SquareRootRate) Dim() int { return 1 }

func (m *SquareRootRate) Drift(t float64, x sde.State) sde.State {
	return sde.State{m.Speed * (m.Level - x[RateFactor])}
}

func (m *SquareRootRate) Diffusion(t float64, x sde.State) sde.State {
	return sde.State{m.Vol * sde.SqrtAbs(x[RateFactor])}
}

func (m *SquareRootRate) Model(horizon, dt float64) (sde.Model, error) {
	return sde.Model{
		System:  m,
		X0:      sde.State{m.R0},
		Horizon: horizon,
		Dt:      dt,
	}, nil
}

func (m *SquareRootRate) GetParams() map[string]float64 {
	return map[string]float64{
		"speed": m.Speed,
		"level": m.Level,
		"vol":   m.Vol,
		"r0":    m.R0,
	}
}

func (m *SquareRootRate) SetParam(name string, value float64) error {
	switch name {
	case "speed":
		m.Speed = value
	case "level":
		m.Level = value
	case "vol":
		m.Vol = value
	case "r0":
		m.R0 = value
	default:
		return unknownParam("square-root rate", name)
	}
	return nil
}
