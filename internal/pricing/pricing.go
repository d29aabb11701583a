// Package pricing wires models, payoffs and the Monte Carlo aggregator into
// named scenarios.
package pricing

import (
	"context"
	"fmt"

	"github.com/san-kum/mcprice/internal/config"
	"github.com/san-kum/mcprice/internal/integrators"
	"github.com/san-kum/mcprice/internal/montecarlo"
	"github.com/san-kum/mcprice/internal/sde"
)

// Options maps the run-level settings of cfg onto aggregator options.
func Options(cfg *config.Config) montecarlo.Options {
	opts := montecarlo.DefaultOptions()
	opts.Replications = cfg.Replications
	opts.Seed = cfg.Seed
	opts.Workers = cfg.Workers
	if cfg.Confidence != 0 {
		opts.Confidence = cfg.Confidence
	}
	return opts
}

// Simulator binds the scenario's model to the Euler-Maruyama scheme.
func (s *Scenario) Simulator() (*sde.Simulator, error) {
	return sde.New(s.Model, integrators.NewEulerMaruyama())
}

// Price runs the Monte Carlo estimate for sc.
func Price(ctx context.Context, sc *Scenario, opts montecarlo.Options) (*montecarlo.Estimate, error) {
	sim, err := sc.Simulator()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	return montecarlo.Run(ctx, sim, sc.Payoff, opts)
}

// CoverageReport counts how often repeated runs bracket a target value.
type CoverageReport struct {
	Runs      int
	Covered   int
	Target    float64
	MeanWidth float64
	Estimates []*montecarlo.Estimate
}

func (c CoverageReport) Rate() float64 {
	if c.Runs == 0 {
		return 0
	}
	return float64(c.Covered) / float64(c.Runs)
}

// Coverage repeats the run `runs` times with seeds opts.Seed, opts.Seed+1, ...
// and counts the intervals that contain target.
func Coverage(ctx context.Context, sc *Scenario, target float64, runs int, opts montecarlo.Options) (CoverageReport, error) {
	if runs < 1 {
		return CoverageReport{}, fmt.Errorf("%w: runs must be positive, got %d", sde.ErrInvalidConfiguration, runs)
	}
	sim, err := sc.Simulator()
	if err != nil {
		return CoverageReport{}, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	report := CoverageReport{Runs: runs, Target: target, Estimates: make([]*montecarlo.Estimate, 0, runs)}
	base := opts.Seed
	width := 0.0
	for i := 0; i < runs; i++ {
		opts.Seed = base + uint64(i)
		est, err := montecarlo.Run(ctx, sim, sc.Payoff, opts)
		if err != nil {
			return CoverageReport{}, err
		}
		if est.Contains(target) {
			report.Covered++
		}
		width += est.Width()
		report.Estimates = append(report.Estimates, est)
	}
	report.MeanWidth = width / float64(runs)
	return report, nil
}
