package config

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/numlab/lpmc/pkg/solver"
)

// Allocator flags.
const (
	FlagProblem            = "problem"
	FlagStrategy           = "strategy"
	FlagMaxNodes           = "max-nodes"
	FlagSensitivityPercent = "sensitivity-percent"
)

// DefaultSensitivityPercent is the increase applied to each resource in generated sensitivity scenarios.
const DefaultSensitivityPercent = 10.0

// AllocatorConfig configures the allocator command.
type AllocatorConfig struct {
	Common

	// ProblemFile is a YAML problem definition. Empty selects the built-in problem.
	ProblemFile string
	Strategy    string
	// MaxNodes bounds branch-and-bound. Zero means unlimited.
	MaxNodes int
	// SensitivityPercent is the availability increase per generated scenario. Zero disables them.
	SensitivityPercent float64
}

// AddAllocatorFlags registers the allocator flags on fs.
func AddAllocatorFlags(fs *pflag.FlagSet) {
	addCommonFlags(fs)
	fs.String(FlagProblem, "", "YAML problem file; the built-in beverage problem when empty")
	fs.String(FlagStrategy, solver.BranchAndBoundStrategy.String(), "solver strategy: branch-and-bound or relaxation")
	fs.Int(FlagMaxNodes, solver.DefaultOptions().MaxNodes, "branch-and-bound node limit, 0 for unlimited")
	fs.Float64(FlagSensitivityPercent, DefaultSensitivityPercent, "resource increase in percent for sensitivity analysis, 0 to disable")
}

// LoadAllocatorConfig resolves the allocator configuration from fs, the environment and the config file.
func LoadAllocatorConfig(fs *pflag.FlagSet) (*AllocatorConfig, error) {
	v, err := newViper(fs)
	if err != nil {
		return nil, err
	}
	cfg := &AllocatorConfig{
		Common:             loadCommon(v),
		ProblemFile:        v.GetString(FlagProblem),
		Strategy:           v.GetString(FlagStrategy),
		MaxNodes:           v.GetInt(FlagMaxNodes),
		SensitivityPercent: v.GetFloat64(FlagSensitivityPercent),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid allocator configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks for invalid configuration values.
func (c *AllocatorConfig) Validate() error {
	if _, err := solver.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if c.MaxNodes < 0 {
		return fmt.Errorf("max-nodes must be >= 0, got %d", c.MaxNodes)
	}
	if c.SensitivityPercent <= -100 {
		return fmt.Errorf("sensitivity-percent must be > -100, got %.1f", c.SensitivityPercent)
	}
	return nil
}

// SolverStrategy returns the configured solver strategy.
func (c *AllocatorConfig) SolverStrategy() solver.Strategy {
	s, err := solver.ParseStrategy(c.Strategy)
	if err != nil {
		return solver.BranchAndBoundStrategy
	}
	return s
}

// SolverOptions returns solver options with the configured node limit.
func (c *AllocatorConfig) SolverOptions() *solver.Options {
	opts := solver.DefaultOptions()
	opts.MaxNodes = c.MaxNodes
	return opts
}
