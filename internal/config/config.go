// Package config loads CLI defaults from an HCL configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete tool configuration.
type Config struct {
	Simulation SimulationSettings `hcl:"simulation,block"`
	Solver     SolverSettings     `hcl:"solver,block"`
	Output     OutputSettings     `hcl:"output,block"`
}

// SimulationSettings contains equity simulation defaults.
type SimulationSettings struct {
	Iterations  int    `hcl:"iterations,optional"`
	Workers     int    `hcl:"workers,optional"`
	TimeBudget  string `hcl:"time_budget,optional"`
	DefaultSeed int64  `hcl:"seed,optional"`
}

// SolverSettings contains solve session defaults.
type SolverSettings struct {
	Iterations         int       `hcl:"iterations,optional"`
	BetSizing          []float64 `hcl:"bet_sizing,optional"`
	MaxRaisesPerStreet int       `hcl:"max_raises_per_street,optional"`
	ProgressEvery      int       `hcl:"progress_every,optional"`
}

// OutputSettings controls result rendering.
type OutputSettings struct {
	Color    bool   `hcl:"color,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Simulation: SimulationSettings{
			Iterations: 100000,
		},
		Solver: SolverSettings{
			Iterations:         10000,
			BetSizing:          []float64{0.33, 0.5, 0.75, 1.0},
			MaxRaisesPerStreet: 3,
			ProgressEvery:      1000,
		},
		Output: OutputSettings{
			Color:    true,
			LogLevel: "info",
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := Default()
	if config.Simulation.Iterations == 0 {
		config.Simulation.Iterations = defaults.Simulation.Iterations
	}
	if config.Solver.Iterations == 0 {
		config.Solver.Iterations = defaults.Solver.Iterations
	}
	if len(config.Solver.BetSizing) == 0 {
		config.Solver.BetSizing = defaults.Solver.BetSizing
	}
	if config.Solver.MaxRaisesPerStreet == 0 {
		config.Solver.MaxRaisesPerStreet = defaults.Solver.MaxRaisesPerStreet
	}
	if config.Solver.ProgressEvery == 0 {
		config.Solver.ProgressEvery = defaults.Solver.ProgressEvery
	}
	if config.Output.LogLevel == "" {
		config.Output.LogLevel = defaults.Output.LogLevel
	}

	return &config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Simulation.Iterations <= 0 {
		return fmt.Errorf("simulation iterations must be positive, got %d", c.Simulation.Iterations)
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("simulation workers cannot be negative, got %d", c.Simulation.Workers)
	}
	if c.Solver.Iterations <= 0 {
		return fmt.Errorf("solver iterations must be positive, got %d", c.Solver.Iterations)
	}
	if c.Solver.MaxRaisesPerStreet <= 0 {
		return fmt.Errorf("max raises per street must be positive, got %d", c.Solver.MaxRaisesPerStreet)
	}
	prev := 0.0
	for _, f := range c.Solver.BetSizing {
		if f <= prev {
			return fmt.Errorf("bet sizing fractions must be positive and increasing, got %v", c.Solver.BetSizing)
		}
		prev = f
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Output.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.Output.LogLevel)
	}

	return nil
}
