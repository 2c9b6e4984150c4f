// Package solver implements linear and mixed-integer programming for lpmc.
//
// The solver package models a linear program as named variables, a linear objective
// and linear constraints, and solves it with one of the available strategies.
//
// Key Components:
//
//   - Model: Variables, objective and constraints of a linear program
//   - Solver: Strategy interface returning a Solution
//   - BranchAndBound: Depth-first branch-and-bound over LP relaxations (integer variables)
//   - Relaxation: Single LP relaxation, integrality ignored
//
// LP relaxations are converted to standard form (min c^T x, A x = b, x >= 0) and
// handed to the gonum simplex implementation.
//
// Example usage:
//
//	m := solver.NewModel("production", solver.Maximize)
//	_ = m.AddVariable(solver.Variable{Name: "x", Integer: true})
//	_ = m.AddVariable(solver.Variable{Name: "y", Integer: true})
//	_ = m.SetObjective(solver.T("x", 1), solver.T("y", 1))
//	_ = m.AddConstraint(solver.Constraint{
//	    Name:  "water",
//	    Terms: []solver.Term{solver.T("x", 2), solver.T("y", 1)},
//	    Op:    solver.LessEqual,
//	    RHS:   100,
//	})
//
//	s, err := solver.NewSolver(solver.BranchAndBoundStrategy, solver.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	sol, err := s.Solve(ctx, m)
//	if err != nil {
//	    return err
//	}
//	if !sol.HasSolution() {
//	    log.Info("no solution", "status", sol.Status)
//	}
//
// Non-optimal outcomes (infeasible, unbounded) are reported through Solution.Status,
// never as zero-valued variables. Errors are reserved for malformed models and
// numerical failures.
package solver
