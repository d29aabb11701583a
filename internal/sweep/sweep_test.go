package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/mcprice/internal/config"
	"github.com/san-kum/mcprice/internal/pricing"
	"github.com/san-kum/mcprice/internal/sde"
)

func TestGridPoints(t *testing.T) {
	g := NewGrid().Add("rho", -0.5, 0.5).Add("s0", 70, 80, 90)
	points := g.Points()
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}
	if points[0]["rho"] != -0.5 || points[0]["s0"] != 70 {
		t.Errorf("unexpected first point %v", points[0])
	}
	if points[5]["rho"] != 0.5 || points[5]["s0"] != 90 {
		t.Errorf("unexpected last point %v", points[5])
	}

	if len(NewGrid().Points()) != 0 {
		t.Error("expected no points for an empty grid")
	}
}

func TestParseAxis(t *testing.T) {
	g := NewGrid()
	if err := g.ParseAxis("vol=0.01, 0.05,0.1"); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(g.Points()) != 3 || g.Names()[0] != "vol" {
		t.Errorf("unexpected grid: %v", g.Points())
	}

	for _, bad := range []string{"vol", "vol=", "=1", "vol=a,b"} {
		if err := NewGrid().ParseAxis(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestRunBondVolatility(t *testing.T) {
	cfg := config.ForScenario("bond")
	cfg.Replications = 200
	cfg.Seed = 4

	g := NewGrid().Add("r0", 0.02, 0.06, 0.10)
	points, err := Run(context.Background(), pricing.NewRegistry(), cfg, g, pricing.Options(cfg))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].Estimate.Mean >= points[i-1].Estimate.Mean {
			t.Errorf("bond price should fall as r0 rises: %v then %v", points[i-1].Estimate.Mean, points[i].Estimate.Mean)
		}
	}
	if cfg.Params != nil {
		t.Errorf("base config was mutated: %v", cfg.Params)
	}
}

func TestRunInvalidPoint(t *testing.T) {
	cfg := config.ForScenario("call")
	g := NewGrid().Add("rho", 0.5, 2)
	_, err := Run(context.Background(), pricing.NewRegistry(), cfg, g, pricing.Options(cfg))
	if !errors.Is(err, sde.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}
