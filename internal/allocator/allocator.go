// Package allocator solves production problems and analyzes the resulting plans.
package allocator

import (
	"context"
	"fmt"

	"github.com/numlab/lpmc/api/v1alpha1"
	"github.com/numlab/lpmc/internal/logging"
	"github.com/numlab/lpmc/pkg/core"
	"github.com/numlab/lpmc/pkg/solver"
)

// Result is the outcome of solving a production problem under one objective.
type Result struct {
	Problem   string
	Objective string
	Status    solver.Status

	// ObjectiveValue, Total, Quantities, Usage and Limiting are only set when HasSolution is true.
	ObjectiveValue float64
	// Total is the number of units produced over all products.
	Total float64
	// Quantities maps product names to planned quantities.
	Quantities map[string]float64
	// Products lists product names in problem order.
	Products []string
	Usage    []core.ResourceUsage
	Limiting []string

	Nodes int
}

// HasSolution reports whether the result carries a production plan.
func (r *Result) HasSolution() bool {
	return r.Status.HasSolution() && r.Quantities != nil
}

// Quantity returns the planned quantity of a product.
func (r *Result) Quantity(product string) (float64, error) {
	if !r.HasSolution() {
		return 0, fmt.Errorf("%w: status %s", solver.ErrNoSolution, r.Status)
	}
	q, ok := r.Quantities[product]
	if !ok {
		return 0, fmt.Errorf("unknown product %q", product)
	}
	return q, nil
}

// Allocator solves production problems with a Solver.
type Allocator struct {
	solver solver.Solver
}

// NewAllocator creates an Allocator using s.
func NewAllocator(s solver.Solver) (*Allocator, error) {
	if s == nil {
		return nil, fmt.Errorf("solver cannot be nil")
	}
	return &Allocator{solver: s}, nil
}

// Allocate solves problem under its primary objective. Infeasible and unbounded problems are not
// errors: they are reported through Result.Status with no plan.
func (a *Allocator) Allocate(ctx context.Context, problem *v1alpha1.ProductionProblem) (*Result, error) {
	logger := logging.FromContext(ctx).WithValues("problem", problem.Name, "objective", problem.Objective.Name)

	if err := problem.Validate(); err != nil {
		return nil, fmt.Errorf("invalid problem: %w", err)
	}
	m, err := BuildModel(problem)
	if err != nil {
		return nil, err
	}

	sol, err := a.solver.Solve(logging.IntoContext(ctx, logger), m)
	if err != nil {
		return nil, fmt.Errorf("solving %q: %w", problem.Name, err)
	}

	res := &Result{
		Problem:   problem.Name,
		Objective: problem.Objective.Name,
		Status:    sol.Status,
		Nodes:     sol.Nodes,
	}
	for _, p := range problem.Products {
		res.Products = append(res.Products, p.Name)
	}
	if !sol.HasSolution() {
		logger.Info("No production plan", "status", sol.Status.String(), "nodes", sol.Nodes)
		return res, nil
	}

	res.Quantities = make(map[string]float64, len(problem.Products))
	for _, p := range problem.Products {
		q, err := sol.Value(p.Name)
		if err != nil {
			return nil, err
		}
		res.Quantities[p.Name] = q
		res.Total += q
	}
	res.ObjectiveValue = sol.Objective

	res.Usage, err = core.AnalyzeUsage(problem, res.Quantities)
	if err != nil {
		return nil, err
	}
	res.Limiting = core.LimitingResources(res.Usage)

	logger.Info("Production plan found",
		"status", sol.Status.String(),
		"objectiveValue", res.ObjectiveValue,
		"total", res.Total,
		"limiting", res.Limiting)
	logger.V(logging.DEBUG).Info("Production quantities", "quantities", res.Quantities, "nodes", sol.Nodes)
	return res, nil
}
