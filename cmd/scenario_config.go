package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenarioConfig is an epidemic scenario loaded from YAML.
type ScenarioConfig struct {
	Population   int       `yaml:"population"`
	RecoveryTime float64   `yaml:"recovery_time"`
	Seed         int64     `yaml:"seed"`
	Forecast     int       `yaml:"forecast,omitempty"`
	Data         []float64 `yaml:"data"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*ScenarioConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var cfg ScenarioConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks field ranges before the model's own validation runs.
func (c *ScenarioConfig) Validate() error {
	if c.Population < 1 {
		return fmt.Errorf("population must be >= 1, got %d", c.Population)
	}
	if c.RecoveryTime <= 0 {
		return fmt.Errorf("recovery_time must be > 0, got %v", c.RecoveryTime)
	}
	if len(c.Data) == 0 {
		return fmt.Errorf("data must contain at least one observed count")
	}
	for i, v := range c.Data {
		if v < 0 {
			return fmt.Errorf("data[%d] = %v, want a non-negative count", i, v)
		}
	}
	if c.Forecast < 0 {
		return fmt.Errorf("forecast must be >= 0, got %d", c.Forecast)
	}
	return nil
}
