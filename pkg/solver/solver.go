package solver

import (
	"context"
	"fmt"
)

// Solver solves a Model.
type Solver interface {
	// Solve solves m. Infeasible and unbounded models are reported through the
	// solution status; the error is reserved for malformed models and numerical failures.
	Solve(ctx context.Context, m *Model) (*Solution, error)
}

// Strategy is an enumeration of the solving strategies available through NewSolver.
type Strategy int

// enumeration of Strategy
const (
	BranchAndBoundStrategy Strategy = iota
	RelaxationStrategy
)

func (s Strategy) String() string {
	switch s {
	case BranchAndBoundStrategy:
		return "branch-and-bound"
	case RelaxationStrategy:
		return "relaxation"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy converts a strategy name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "branch-and-bound", "bnb":
		return BranchAndBoundStrategy, nil
	case "relaxation", "lp":
		return RelaxationStrategy, nil
	default:
		return 0, fmt.Errorf("unsupported solver strategy: %q", name)
	}
}

// Options tune the solvers.
type Options struct {
	// SimplexTolerance is passed to the simplex implementation.
	SimplexTolerance float64
	// FeasibilityTolerance is used when checking bounds and trivial rows.
	FeasibilityTolerance float64
	// IntegralityTolerance is the distance from an integer below which a value counts as integral.
	IntegralityTolerance float64
	// MaxNodes bounds the number of relaxations explored by branch-and-bound. Zero means unlimited.
	MaxNodes int
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() *Options {
	return &Options{
		SimplexTolerance:     1e-10,
		FeasibilityTolerance: 1e-9,
		IntegralityTolerance: 1e-6,
		MaxNodes:             10000,
	}
}

// NewSolver is a factory that creates a new Solver based on the provided strategy.
func NewSolver(strategy Strategy, opts *Options) (Solver, error) {
	switch strategy {
	case BranchAndBoundStrategy:
		return NewBranchAndBound(opts)
	case RelaxationStrategy:
		return NewRelaxation(opts)
	default:
		return nil, fmt.Errorf("unsupported solver strategy: %v", strategy)
	}
}

// Relaxation solves the continuous LP relaxation of a model, ignoring integrality.
type Relaxation struct {
	opts *Options
}

// NewRelaxation creates a Relaxation solver.
func NewRelaxation(opts *Options) (*Relaxation, error) {
	if opts == nil {
		return nil, fmt.Errorf("options cannot be nil")
	}
	return &Relaxation{opts: opts}, nil
}

// Solve solves the LP relaxation of m.
func (r *Relaxation) Solve(ctx context.Context, m *Model) (*Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := solveRelaxation(m, rootBounds(m), r.opts.SimplexTolerance, r.opts.FeasibilityTolerance)
	if err != nil {
		return nil, err
	}
	sol := newSolution(m, res.status)
	sol.Nodes = 1
	if res.status == StatusOptimal {
		sol.Values = res.x
		sol.Objective = res.objective
	}
	return sol, nil
}
