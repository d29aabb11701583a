package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultReplications = 1000
	DefaultConfidence   = 0.95
	DefaultHorizon      = 1.0
	DefaultBondDt       = 0.01
	DefaultOptionDt     = 0.05
)

// Config describes one pricing run. Only the parameter block matching
// Scenario is used.
type Config struct {
	Scenario     string  `yaml:"scenario"`
	Replications int     `yaml:"replications"`
	Seed         uint64  `yaml:"seed"`
	Workers      int     `yaml:"workers"`
	Confidence   float64 `yaml:"confidence"`
	Horizon      float64 `yaml:"horizon"`
	Dt           float64 `yaml:"dt"`

	Bond BondConfig `yaml:"bond"`
	Call CallConfig `yaml:"call"`
	GBM  GBMConfig  `yaml:"gbm"`

	// Params overrides model parameters by name after the scenario block
	// has been applied, e.g. {"rho": 0.5}.
	Params map[string]float64 `yaml:"params,omitempty"`
}

// BondConfig parameterizes the square-root short rate.
type BondConfig struct {
	Speed float64 `yaml:"speed"`
	Level float64 `yaml:"level"`
	Vol   float64 `yaml:"vol"`
	R0    float64 `yaml:"r0"`
}

// CallConfig parameterizes the stochastic-volatility call.
type CallConfig struct {
	Rate     float64 `yaml:"rate"`
	Speed    float64 `yaml:"speed"`
	Level    float64 `yaml:"level"`
	VolOfVar float64 `yaml:"vol_of_var"`
	Rho      float64 `yaml:"rho"`
	S0       float64 `yaml:"s0"`
	V0       float64 `yaml:"v0"`
	Strike   float64 `yaml:"strike"`
}

// GBMConfig parameterizes the Black-Scholes call.
type GBMConfig struct {
	Rate   float64 `yaml:"rate"`
	Vol    float64 `yaml:"vol"`
	S0     float64 `yaml:"s0"`
	Strike float64 `yaml:"strike"`
}

// DefaultConfig returns the zero-coupon bond scenario.
func DefaultConfig() *Config {
	return &Config{
		Scenario:     "bond",
		Replications: DefaultReplications,
		Confidence:   DefaultConfidence,
		Horizon:      DefaultHorizon,
		Dt:           DefaultBondDt,
		Bond: BondConfig{
			Speed: 0.2,
			Level: 0.09,
			Vol:   0.05,
			R0:    0.06,
		},
		Call: CallConfig{
			Rate:     0.05,
			Speed:    0.2,
			Level:    0.09,
			VolOfVar: 0.1,
			Rho:      0.75,
			S0:       80,
			V0:       0.09,
			Strike:   80,
		},
		GBM: GBMConfig{
			Rate:   0.05,
			Vol:    0.3,
			S0:     80,
			Strike: 80,
		},
	}
}

// ForScenario returns the defaults with the scenario's customary step size.
func ForScenario(scenario string) *Config {
	cfg := DefaultConfig()
	cfg.Scenario = scenario
	if scenario != "bond" {
		cfg.Dt = DefaultOptionDt
	}
	return cfg
}

func Load(path string) (*Config, error) {
	return LoadInto(path, DefaultConfig())
}

// LoadInto applies the file at path on top of base, which is left untouched.
// A file naming a different scenario starts from that scenario's defaults
// instead of base.
func LoadInto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var head struct {
		Scenario string `yaml:"scenario"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var cfg *Config
	if head.Scenario != "" && head.Scenario != base.Scenario {
		cfg = ForScenario(head.Scenario)
	} else {
		cfg = base.Clone()
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	return &out
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
