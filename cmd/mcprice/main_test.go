package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/mcprice/internal/config"
)

func newTestCommand(t *testing.T, flags ...string) *cobra.Command {
	t.Helper()
	configFile, preset, params = "", "", nil

	cmd := &cobra.Command{Use: "test"}
	addScenarioFlags(cmd)
	if err := cmd.ParseFlags(flags); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newTestCommand(t), nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Scenario != "bond" || cfg.Dt != config.DefaultBondDt {
		t.Errorf("expected bond defaults, got %s dt=%v", cfg.Scenario, cfg.Dt)
	}

	cfg, err = loadConfig(newTestCommand(t), []string{"call"})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Dt != config.DefaultOptionDt {
		t.Errorf("expected option step, got %v", cfg.Dt)
	}
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	cmd := newTestCommand(t, "--replications", "250", "--seed", "9", "--dt", "0.02", "--param", "rho=-0.5")
	cfg, err := loadConfig(cmd, []string{"call"})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Replications != 250 || cfg.Seed != 9 || cfg.Dt != 0.02 {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Params["rho"] != -0.5 {
		t.Errorf("expected rho override, got %v", cfg.Params)
	}
	if cfg.Confidence != config.DefaultConfidence {
		t.Errorf("unset flag overrode confidence: %v", cfg.Confidence)
	}
}

func TestLoadConfigPresetAndFile(t *testing.T) {
	cfg, err := loadConfig(newTestCommand(t, "--preset", "fine"), []string{"bond"})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Dt != 0.001 {
		t.Errorf("expected preset dt 0.001, got %v", cfg.Dt)
	}

	if _, err := loadConfig(newTestCommand(t, "--preset", "missing"), []string{"bond"}); err == nil {
		t.Error("expected unknown preset error")
	}

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("scenario: gbm-call\nreplications: 5000\ndt: 0.05\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig(newTestCommand(t, "--config", path, "--replications", "10"), nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Scenario != "gbm-call" || cfg.Replications != 10 {
		t.Errorf("expected file scenario with flag override, got %s n=%d", cfg.Scenario, cfg.Replications)
	}
}

func TestLoadConfigFileOverPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(path, []byte("replications: 5000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(newTestCommand(t, "--preset", "fine", "--config", path), []string{"bond"})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Dt != 0.001 || cfg.Replications != 5000 {
		t.Errorf("expected preset dt 0.001 and file replications, got dt=%v n=%d", cfg.Dt, cfg.Replications)
	}

	callOnly := filepath.Join(dir, "call.yaml")
	if err := os.WriteFile(callOnly, []byte("scenario: call\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig(newTestCommand(t, "--config", callOnly), nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Scenario != "call" || cfg.Dt != config.DefaultOptionDt {
		t.Errorf("expected call with option step, got %s dt=%v", cfg.Scenario, cfg.Dt)
	}
}

func TestParseParams(t *testing.T) {
	got, err := parseParams([]string{"vol=0.1", "r0=0.05"})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got["vol"] != 0.1 || got["r0"] != 0.05 {
		t.Errorf("unexpected params: %v", got)
	}

	for _, bad := range []string{"vol", "=1", "vol=abc"} {
		if _, err := parseParams([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
