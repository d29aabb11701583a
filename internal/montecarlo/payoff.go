package montecarlo

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/san-kum/mcprice/internal/sde"
)

var errNonFinite = errors.New("payoff is NaN or Inf")

// Payoff maps one simulated replication to a discounted value. A payoff is
// either path-based (sees every state) or terminal-based (sees only X(t_n));
// terminal payoffs skip the path allocation.
type Payoff struct {
	Name     string
	path     func(p *sde.Path) (float64, error)
	terminal func(x sde.State) (float64, error)
}

func PathPayoff(name string, fn func(p *sde.Path) (float64, error)) Payoff {
	return Payoff{Name: name, path: fn}
}

func TerminalPayoff(name string, fn func(x sde.State) (float64, error)) Payoff {
	return Payoff{Name: name, terminal: fn}
}

func (p Payoff) NeedsPath() bool { return p.path != nil }

func (p Payoff) validate() error {
	if (p.path == nil) == (p.terminal == nil) {
		return invalid("payoff %q must define exactly one of a path or terminal function", p.Name)
	}
	return nil
}

// evaluate runs one replication. A panic in the model coefficients or the
// payoff function is returned as an error.
func (p Payoff) evaluate(sim *sde.Simulator, rng *rand.Rand, observers []sde.Observer) (v float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = 0, fmt.Errorf("panic: %v", r)
		}
	}()

	if p.path != nil {
		v, err = p.path(sim.Path(rng, observers...))
	} else {
		v, err = p.terminal(sim.Terminal(rng, observers...))
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNonFinite
	}
	return v, nil
}

// DiscountedBond returns exp(-dt · Σ_{j=0}^{n} r(t_j)) for the rate held in
// the given factor. The sum runs over all n+1 grid points, both endpoints
// included.
func DiscountedBond(factor int) Payoff {
	return PathPayoff("discounted-bond", func(p *sde.Path) (float64, error) {
		if p.Len() == 0 {
			return 0, errors.New("empty path")
		}
		sum := 0.0
		for _, x := range p.States {
			if factor < 0 || factor >= len(x) {
				return 0, fmt.Errorf("factor %d out of range for %d-factor state", factor, len(x))
			}
			sum += x[factor]
		}
		return math.Exp(-p.Dt * sum), nil
	})
}

// DiscountedCall returns exp(-r·T) · max(S(T) - K, 0).
func DiscountedCall(rate, maturity, strike float64, factor int) Payoff {
	discount := math.Exp(-rate * maturity)
	return TerminalPayoff("discounted-call", func(x sde.State) (float64, error) {
		if factor < 0 || factor >= len(x) {
			return 0, fmt.Errorf("factor %d out of range for %d-factor state", factor, len(x))
		}
		return discount * math.Max(x[factor]-strike, 0), nil
	})
}

// DiscountedPut returns exp(-r·T) · max(K - S(T), 0).
func DiscountedPut(rate, maturity, strike float64, factor int) Payoff {
	discount := math.Exp(-rate * maturity)
	return TerminalPayoff("discounted-put", func(x sde.State) (float64, error) {
		if factor < 0 || factor >= len(x) {
			return 0, fmt.Errorf("factor %d out of range for %d-factor state", factor, len(x))
		}
		return discount * math.Max(strike-x[factor], 0), nil
	})
}
