package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTarget is the public Valet API.
const DefaultTarget = "https://www.bankofcanada.ca/valet"

// Checker holds the conformance runner's settings.
type Checker struct {
	Target            string            `yaml:"target"`
	TimeoutSec        int               `yaml:"timeout_sec"`
	Policy            string            `yaml:"policy"`
	Schedule          string            `yaml:"schedule"`
	DataDrivenFixture string            `yaml:"data_driven_fixture"`
	ScenarioFixture   string            `yaml:"scenario_fixture"`
	Report            string            `yaml:"report"`
	JSONReport        string            `yaml:"json_report"`
	DefaultBounds     *Bounds           `yaml:"default_bounds"`
	Bounds            map[string]Bounds `yaml:"bounds"`
}

// Bounds is an open interval (Min, Max) the average rate of a pair must lie in.
type Bounds struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Timeout returns the per-request timeout.
func (c *Checker) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// LoadChecker reads config from a YAML file, then applies environment
// variable overrides. A missing file is not an error.
func LoadChecker(path string) (*Checker, error) {
	cfg := &Checker{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Environment variable overrides
	if v := os.Getenv("VALET_TARGET"); v != "" {
		cfg.Target = v
	}
	if v := os.Getenv("VALET_POLICY"); v != "" {
		cfg.Policy = v
	}
	if v := os.Getenv("VALET_SCHEDULE"); v != "" {
		cfg.Schedule = v
	}
	cfg.TimeoutSec = getEnvInt("VALET_TIMEOUT_SEC", cfg.TimeoutSec)

	// Defaults
	if cfg.Target == "" {
		cfg.Target = DefaultTarget
	}
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = 30
	}
	if cfg.Policy == "" {
		cfg.Policy = "collect-all"
	}
	if cfg.DataDrivenFixture == "" {
		cfg.DataDrivenFixture = "testdata/datadriventestdata.json"
	}
	if cfg.ScenarioFixture == "" {
		cfg.ScenarioFixture = "testdata/valettestingdata.json"
	}

	return cfg, nil
}
