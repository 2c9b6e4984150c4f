package solver

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrNoSolution is returned when reading values from a solution that holds none.
var ErrNoSolution = errors.New("solution has no values")

// Status is the outcome of a solve.
type Status int

const (
	// StatusNotSolved means the solver stopped before finding any feasible point.
	StatusNotSolved Status = iota
	// StatusOptimal means the returned values are proven optimal.
	StatusOptimal
	// StatusFeasible means the returned values are feasible but optimality was not proven.
	StatusFeasible
	StatusInfeasible
	StatusUnbounded
)

func (s Status) String() string {
	switch s {
	case StatusNotSolved:
		return "Not Solved"
	case StatusOptimal:
		return "Optimal"
	case StatusFeasible:
		return "Feasible"
	case StatusInfeasible:
		return "Infeasible"
	case StatusUnbounded:
		return "Unbounded"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// HasSolution reports whether a solve with this status carries variable values.
func (s Status) HasSolution() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// Solution contains the result of solving a Model.
type Solution struct {
	// Status indicates the outcome of the solve.
	Status Status

	// Objective is the objective value at Values. Zero when there is no solution.
	Objective float64

	// Values holds one value per model variable, in model order. Nil when there is no solution.
	Values []float64

	// Nodes is the number of LP relaxations solved.
	Nodes int

	names map[string]int
}

func newSolution(m *Model, status Status) *Solution {
	return &Solution{Status: status, names: m.index}
}

// IsOptimal returns true if the solution is optimal.
func (s *Solution) IsOptimal() bool {
	return s.Status == StatusOptimal
}

// IsInfeasible returns true if the model is infeasible.
func (s *Solution) IsInfeasible() bool {
	return s.Status == StatusInfeasible
}

// IsUnbounded returns true if the model is unbounded.
func (s *Solution) IsUnbounded() bool {
	return s.Status == StatusUnbounded
}

// HasSolution returns true if the solution contains valid values.
func (s *Solution) HasSolution() bool {
	return s.Status.HasSolution() && s.Values != nil
}

// Value returns the value of the named variable.
func (s *Solution) Value(name string) (float64, error) {
	if !s.HasSolution() {
		return 0, fmt.Errorf("%w: status %s", ErrNoSolution, s.Status)
	}
	j, ok := s.names[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	return s.Values[j], nil
}

func dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}
