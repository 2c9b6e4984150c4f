package allocator

import (
	"fmt"

	"github.com/numlab/lpmc/api/v1alpha1"
	"github.com/numlab/lpmc/pkg/solver"
)

// BuildModel translates a production problem into a solver model: one variable per product
// (integer unless the product is continuous), the objective maximized over product weights,
// and one "<=" constraint per resource with the recipe coefficients of every product using it.
// Variables follow the order of problem.Products and constraints the order of problem.Resources.
func BuildModel(problem *v1alpha1.ProductionProblem) (*solver.Model, error) {
	if problem == nil {
		return nil, fmt.Errorf("problem cannot be nil")
	}
	m := solver.NewModel(problem.Name, solver.Maximize)

	for _, p := range problem.Products {
		if err := m.AddVariable(solver.Variable{Name: p.Name, Integer: !p.Continuous}); err != nil {
			return nil, err
		}
	}

	objective := make([]solver.Term, 0, len(problem.Products))
	for _, p := range problem.Products {
		if w, ok := problem.Objective.Weights[p.Name]; ok && w != 0 {
			objective = append(objective, solver.T(p.Name, w))
		}
	}
	for name := range problem.Objective.Weights {
		if problem.Product(name) == nil {
			return nil, fmt.Errorf("objective %q: %w: %q", problem.Objective.Name, solver.ErrUnknownVariable, name)
		}
	}
	if err := m.SetObjective(objective...); err != nil {
		return nil, err
	}

	for _, r := range problem.Resources {
		var terms []solver.Term
		for _, p := range problem.Products {
			if units := p.Recipe[r.Name]; units != 0 {
				terms = append(terms, solver.T(p.Name, units))
			}
		}
		c := solver.Constraint{Name: r.Name, Terms: terms, Op: solver.LessEqual, RHS: r.Available}
		if err := m.AddConstraint(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
