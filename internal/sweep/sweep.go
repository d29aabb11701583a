// Package sweep prices a scenario over a grid of model parameters.
package sweep

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/mcprice/internal/config"
	"github.com/san-kum/mcprice/internal/montecarlo"
	"github.com/san-kum/mcprice/internal/pricing"
)

// Grid is the cartesian product of the listed values of each parameter.
type Grid struct {
	names  []string
	values [][]float64
}

func NewGrid() *Grid { return &Grid{} }

func (g *Grid) Add(name string, values ...float64) *Grid {
	g.names = append(g.names, name)
	g.values = append(g.values, values)
	return g
}

// ParseAxis parses "name=v1,v2,...".
func (g *Grid) ParseAxis(s string) error {
	name, raw, ok := strings.Cut(s, "=")
	if !ok || name == "" || raw == "" {
		return fmt.Errorf("invalid axis %q, want name=v1,v2", s)
	}
	var values []float64
	for _, field := range strings.Split(raw, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return fmt.Errorf("invalid axis %q: %w", s, err)
		}
		values = append(values, v)
	}
	g.Add(strings.TrimSpace(name), values...)
	return nil
}

func (g *Grid) Names() []string { return g.names }

// Points enumerates the grid with the last axis varying fastest.
func (g *Grid) Points() []map[string]float64 {
	var out []map[string]float64
	g.walk(0, map[string]float64{}, &out)
	return out
}

func (g *Grid) walk(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.names) {
		if len(current) > 0 {
			*out = append(*out, current)
		}
		return
	}
	for _, v := range g.values[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, x := range current {
			next[k] = x
		}
		next[g.names[depth]] = v
		g.walk(depth+1, next, out)
	}
}

type Point struct {
	Params   map[string]float64
	Estimate *montecarlo.Estimate
}

// Run prices base at every grid point. All points share the seed, so
// neighbouring prices use common random numbers.
func Run(ctx context.Context, reg *pricing.Registry, base *config.Config, g *Grid, opts montecarlo.Options) ([]Point, error) {
	points := g.Points()
	if len(points) == 0 {
		return nil, fmt.Errorf("empty grid")
	}

	results := make([]Point, 0, len(points))
	for _, p := range points {
		cfg := *base
		cfg.Params = make(map[string]float64, len(base.Params)+len(p))
		for k, v := range base.Params {
			cfg.Params[k] = v
		}
		for k, v := range p {
			cfg.Params[k] = v
		}

		sc, err := reg.Build(&cfg)
		if err != nil {
			return nil, fmt.Errorf("grid point %v: %w", p, err)
		}
		est, err := pricing.Price(ctx, sc, opts)
		if err != nil {
			return nil, fmt.Errorf("grid point %v: %w", p, err)
		}
		results = append(results, Point{Params: p, Estimate: est})
	}
	return results, nil
}
