/*
Copyright 2026 The lpmc Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/go-logr/logr"
)

// BranchAndBound solves mixed-integer models by depth-first branch-and-bound over LP relaxations.
type BranchAndBound struct {
	opts *Options
}

// NewBranchAndBound creates a BranchAndBound solver.
func NewBranchAndBound(opts *Options) (*BranchAndBound, error) {
	if opts == nil {
		return nil, fmt.Errorf("options cannot be nil")
	}
	return &BranchAndBound{opts: opts}, nil
}

// Solve solves m, honoring integrality of its integer variables.
func (s *BranchAndBound) Solve(ctx context.Context, m *Model) (*Solution, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("model", m.Name)

	var (
		incumbent []float64
		best      float64
		nodes     int
		truncated bool
	)

	stack := []bounds{rootBounds(m)}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.opts.MaxNodes > 0 && nodes >= s.opts.MaxNodes {
			truncated = true
			logger.Info("Branch-and-bound node limit reached", "nodes", nodes, "open", len(stack))
			break
		}

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		res, err := solveRelaxation(m, node, s.opts.SimplexTolerance, s.opts.FeasibilityTolerance)
		if err != nil {
			return nil, err
		}
		nodes++

		switch res.status {
		case StatusInfeasible:
			continue
		case StatusUnbounded:
			// An unbounded relaxation at any node means the integer problem is unbounded
			// or the relaxation needs bounds the model does not state; report it either way.
			sol := newSolution(m, StatusUnbounded)
			sol.Nodes = nodes
			return sol, nil
		}

		if incumbent != nil && !m.better(res.objective, best, s.opts.FeasibilityTolerance) {
			continue
		}

		j, v := s.branchVariable(m, res.x)
		if j < 0 {
			incumbent = s.roundIntegers(m, res.x)
			best = m.ObjectiveValue(incumbent)
			logger.V(1).Info("New incumbent", "objective", best, "nodes", nodes)
			continue
		}

		down := node.clone()
		down.upper[j] = math.Floor(v)
		up := node.clone()
		up.lower[j] = math.Ceil(v)
		// down is explored first
		stack = append(stack, up, down)
		logger.V(2).Info("Branching", "variable", m.vars[j].Name, "value", v)
	}

	var status Status
	switch {
	case incumbent == nil && truncated:
		status = StatusNotSolved
	case incumbent == nil:
		status = StatusInfeasible
	case truncated:
		status = StatusFeasible
	default:
		status = StatusOptimal
	}

	sol := newSolution(m, status)
	sol.Nodes = nodes
	if incumbent != nil {
		sol.Values = incumbent
		sol.Objective = best
	}
	logger.V(1).Info("Branch-and-bound finished", "status", status.String(), "nodes", nodes)
	return sol, nil
}

// branchVariable returns the first integer variable whose value is fractional, or -1.
func (s *BranchAndBound) branchVariable(m *Model, x []float64) (int, float64) {
	for j, v := range m.vars {
		if !v.Integer {
			continue
		}
		if math.Abs(x[j]-math.Round(x[j])) > s.opts.IntegralityTolerance {
			return j, x[j]
		}
	}
	return -1, 0
}

func (s *BranchAndBound) roundIntegers(m *Model, x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	for j, v := range m.vars {
		if v.Integer {
			out[j] = math.Round(out[j])
		}
	}
	return out
}
