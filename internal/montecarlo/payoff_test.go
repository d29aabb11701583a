package montecarlo

import (
	"math"
	"testing"

	"github.com/san-kum/mcprice/internal/sde"
)

func TestDiscountedBondSumsEveryGridPoint(t *testing.T) {
	path := &sde.Path{
		Dt:     0.5,
		Times:  []float64{0, 0.5, 1},
		States: []sde.State{{0.06}, {0.07}, {0.05}},
	}

	got, err := DiscountedBond(0).path(path)
	if err != nil {
		t.Fatalf("payoff failed: %v", err)
	}

	want := math.Exp(-0.5 * (0.06 + 0.07 + 0.05))
	if math.Abs(got-want) > 1e-15 {
		t.Errorf("got %.17g, want %.17g", got, want)
	}
}

func TestDiscountedBondErrors(t *testing.T) {
	if _, err := DiscountedBond(0).path(&sde.Path{Dt: 0.1}); err == nil {
		t.Error("expected error for empty path")
	}

	path := &sde.Path{Dt: 0.1, Times: []float64{0}, States: []sde.State{{0.05}}}
	if _, err := DiscountedBond(1).path(path); err == nil {
		t.Error("expected error for out-of-range factor")
	}
}

func TestDiscountedCall(t *testing.T) {
	payoff := DiscountedCall(0.05, 1, 80, 0)
	discount := math.Exp(-0.05)

	tests := []struct {
		name  string
		state sde.State
		want  float64
	}{
		{"in the money", sde.State{90, 0.09}, discount * 10},
		{"at the money", sde.State{80, 0.09}, 0},
		{"out of the money", sde.State{70, 0.09}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := payoff.terminal(tt.state)
			if err != nil {
				t.Fatalf("payoff failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := DiscountedCall(0.05, 1, 80, 2).terminal(sde.State{90, 0.09}); err == nil {
		t.Error("expected error for out-of-range factor")
	}
}

func TestDiscountedPut(t *testing.T) {
	got, err := DiscountedPut(0.05, 1, 80, 0).terminal(sde.State{70})
	if err != nil {
		t.Fatalf("payoff failed: %v", err)
	}
	if want := math.Exp(-0.05) * 10; math.Abs(got-want) > 1e-12 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPayoffKinds(t *testing.T) {
	if !DiscountedBond(0).NeedsPath() {
		t.Error("bond payoff should need the full path")
	}
	if DiscountedCall(0.05, 1, 80, 0).NeedsPath() {
		t.Error("call payoff should only need the terminal state")
	}
	if err := (Payoff{Name: "empty"}).validate(); err == nil {
		t.Error("expected error for payoff without a function")
	}
}
