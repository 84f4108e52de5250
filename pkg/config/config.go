// Package config loads engine limits from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable engine limits. Zero values fall back to the
// defaults, so a partial file only overrides what it names.
type Config struct {
	// MaxStackDepth bounds script call recursion.
	MaxStackDepth int `yaml:"max_stack_depth"`

	// StepBudget bounds statements per instance per tick. 0 is unbounded.
	StepBudget int `yaml:"step_budget"`

	// TickRate is the headless runner's ticks per second.
	TickRate int `yaml:"tick_rate"`

	// RandomSeed seeds the Random builtin. 0 seeds from the clock.
	RandomSeed int64 `yaml:"random_seed"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in limits.
func Default() *Config {
	return &Config{
		MaxStackDepth: 64,
		StepBudget:    0,
		TickRate:      60,
		LogLevel:      "info",
	}
}

// Load reads a YAML limits file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects limits the engine cannot run with.
func (c *Config) Validate() error {
	if c.MaxStackDepth <= 0 {
		return fmt.Errorf("max_stack_depth must be positive, got %d", c.MaxStackDepth)
	}
	if c.StepBudget < 0 {
		return fmt.Errorf("step_budget must be non-negative, got %d", c.StepBudget)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %d", c.TickRate)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	return nil
}
