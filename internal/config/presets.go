package config

import "sort"

var Presets = map[string]map[string]*Config{
	"bond": {
		"reference": DefaultConfig(),
		"fine": withBond(func(c *Config) {
			c.Dt = 0.001
		}),
		"volatile": withBond(func(c *Config) {
			c.Bond.Vol = 0.2
			c.Bond.R0 = 0.02
		}),
		"long": withBond(func(c *Config) {
			c.Horizon = 10
			c.Dt = 0.05
		}),
	},
	"call": {
		"reference": ForScenario("call"),
		"uncorrelated": withCall(func(c *Config) {
			c.Call.Rho = 0
		}),
		"leverage": withCall(func(c *Config) {
			c.Call.Rho = -0.7
			c.Call.VolOfVar = 0.4
		}),
		"otm": withCall(func(c *Config) {
			c.Call.Strike = 100
		}),
	},
	"gbm-call": {
		"reference": ForScenario("gbm-call"),
		"deep-itm": withScenario("gbm-call", func(c *Config) {
			c.GBM.Strike = 50
		}),
	},
	"gbm-put": {
		"reference": ForScenario("gbm-put"),
		"deep-itm": withScenario("gbm-put", func(c *Config) {
			c.GBM.Strike = 110
		}),
	},
}

func withScenario(scenario string, fn func(*Config)) *Config {
	cfg := ForScenario(scenario)
	fn(cfg)
	return cfg
}

func withBond(fn func(*Config)) *Config { return withScenario("bond", fn) }
func withCall(fn func(*Config)) *Config { return withScenario("call", fn) }

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scenario, name string) *Config {
	if presets, ok := Presets[scenario]; ok {
		if cfg, ok := presets[name]; ok {
			return cfg.Clone()
		}
	}
	return nil
}

func ListPresets(scenario string) []string {
	presets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
