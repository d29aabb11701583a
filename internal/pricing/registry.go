package pricing

import (
	"fmt"
	"sort"

	"github.com/san-kum/mcprice/internal/config"
	"github.com/san-kum/mcprice/internal/models"
	"github.com/san-kum/mcprice/internal/montecarlo"
	"github.com/san-kum/mcprice/internal/reference"
	"github.com/san-kum/mcprice/internal/sde"
)

// Scenario is a fully specified pricing problem.
type Scenario struct {
	Name   string
	Model  sde.Model
	Payoff montecarlo.Payoff
	// Params are the model parameters after overrides.
	Params map[string]float64
	// Reference is a closed-form price when one exists.
	Reference    float64
	HasReference bool
}

type Builder func(cfg *config.Config) (*Scenario, error)

type entry struct {
	description string
	build       Builder
}

type Registry struct {
	scenarios map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{scenarios: make(map[string]entry)}

	r.Register("bond", "zero-coupon bond, square-root short rate", buildBond)
	r.Register("call", "european call, stochastic volatility", buildCall)
	r.Register("gbm-call", "european call, geometric brownian motion", buildGBMCall)
	r.Register("gbm-put", "european put, geometric brownian motion", buildGBMPut)

	return r
}

func (r *Registry) Register(name, description string, build Builder) {
	r.scenarios[name] = entry{description: description, build: build}
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Describe(name string) string {
	return r.scenarios[name].description
}

func (r *Registry) Build(cfg *config.Config) (*Scenario, error) {
	e, ok := r.scenarios[cfg.Scenario]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", cfg.Scenario)
	}
	sc, err := e.build(cfg)
	if err != nil {
		return nil, err
	}
	if err := sc.Model.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", cfg.Scenario, err)
	}
	return sc, nil
}

func applyParams(m models.Configurable, params map[string]float64) error {
	for name, value := range params {
		if err := m.SetParam(name, value); err != nil {
			return fmt.Errorf("%w: %v", sde.ErrInvalidConfiguration, err)
		}
	}
	return nil
}

func buildBond(cfg *config.Config) (*Scenario, error) {
	b := cfg.Bond
	rate := models.NewSquareRootRate(b.Speed, b.Level, b.Vol, b.R0)
	if err := applyParams(rate, cfg.Params); err != nil {
		return nil, err
	}

	m, err := rate.Model(cfg.Horizon, cfg.Dt)
	if err != nil {
		return nil, err
	}

	sc := &Scenario{
		Name:   "bond",
		Model:  m,
		Payoff: montecarlo.DiscountedBond(models.RateFactor),
		Params: rate.GetParams(),
	}
	if ref, err := reference.SquareRootBond(rate.Speed, rate.Level, rate.Vol, rate.R0, cfg.Horizon); err == nil {
		sc.Reference, sc.HasReference = ref, true
	}
	return sc, nil
}

func buildCall(cfg *config.Config) (*Scenario, error) {
	c := cfg.Call
	sv := models.NewStochasticVolatility(c.Rate, c.Speed, c.Level, c.VolOfVar, c.Rho, c.S0, c.V0)
	if err := applyParams(sv, cfg.Params); err != nil {
		return nil, err
	}

	m, err := sv.Model(cfg.Horizon, cfg.Dt)
	if err != nil {
		return nil, err
	}

	return &Scenario{
		Name:   "call",
		Model:  m,
		Payoff: montecarlo.DiscountedCall(sv.Rate, cfg.Horizon, c.Strike, models.PriceFactor),
		Params: sv.GetParams(),
	}, nil
}

func buildGBMCall(cfg *config.Config) (*Scenario, error) {
	return buildGBM(cfg, "gbm-call", montecarlo.DiscountedCall, reference.BlackScholesCall)
}

func buildGBMPut(cfg *config.Config) (*Scenario, error) {
	return buildGBM(cfg, "gbm-put", montecarlo.DiscountedPut, reference.BlackScholesPut)
}

func buildGBM(
	cfg *config.Config,
	name string,
	payoff func(rate, maturity, strike float64, factor int) montecarlo.Payoff,
	closedForm func(spot, strike, rate, vol, maturity float64) (float64, error),
) (*Scenario, error) {
	g := cfg.GBM
	gbm := models.NewGBM(g.Rate, g.Vol, g.S0)
	if err := applyParams(gbm, cfg.Params); err != nil {
		return nil, err
	}

	m, err := gbm.Model(cfg.Horizon, cfg.Dt)
	if err != nil {
		return nil, err
	}

	sc := &Scenario{
		Name:   name,
		Model:  m,
		Payoff: payoff(gbm.Rate, cfg.Horizon, g.Strike, models.PriceFactor),
		Params: gbm.GetParams(),
	}
	if ref, err := closedForm(gbm.S0, g.Strike, gbm.Rate, gbm.Vol, cfg.Horizon); err == nil {
		sc.Reference, sc.HasReference = ref, true
	}
	return sc, nil
}
