package integrators

import (
	"math"

	"github.com/san-kum/mcprice/internal/sde"
)

// EulerMaruyama is the first-order scheme
// X(t+dt) = X(t) + μ(t, X)·dt + σ(t, X)·sqrt(dt)·Z.
type EulerMaruyama struct{}

func NewEulerMaruyama() *EulerMaruyama {
	return &EulerMaruyama{}
}

func (e *EulerMaruyama) Step(sys sde.System, x sde.State, t, dt float64, z []float64) sde.State {
	mu := sys.Drift(t, x)
	sigma := sys.Diffusion(t, x)
	sqrtDt := math.Sqrt(dt)

	result := make(sde.State, len(x))
	for i := range x {
		result[i] = x[i] + mu[i]*dt + sigma[i]*sqrtDt*z[i]
	}
	return result
}
