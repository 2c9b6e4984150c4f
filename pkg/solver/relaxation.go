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
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// bounds are per-variable bounds of one relaxation, indexed like Model.vars.
type bounds struct {
	lower []float64
	upper []float64
}

func rootBounds(m *Model) bounds {
	b := bounds{
		lower: make([]float64, len(m.vars)),
		upper: make([]float64, len(m.vars)),
	}
	for j, v := range m.vars {
		b.lower[j] = v.Lower
		b.upper[j] = v.upperBound()
	}
	return b
}

func (b bounds) clone() bounds {
	out := bounds{
		lower: make([]float64, len(b.lower)),
		upper: make([]float64, len(b.upper)),
	}
	copy(out.lower, b.lower)
	copy(out.upper, b.upper)
	return out
}

// relaxed is the outcome of one LP relaxation.
type relaxed struct {
	status    Status
	x         []float64
	objective float64
}

// solveRelaxation solves the continuous relaxation of m under b.
//
// The problem is shifted so every column starts at its lower bound, upper bounds become
// rows, inequality rows get slack or surplus columns, and rows are sign-normalized so
// the right-hand side is non-negative. Columns that appear in no row are set directly.
func solveRelaxation(m *Model, b bounds, tol, feasTol float64) (relaxed, error) {
	n := len(m.vars)
	if n == 0 {
		return relaxed{}, ErrEmptyModel
	}

	inRow := make([]bool, n)
	for _, row := range m.rows {
		for j, a := range row {
			if a != 0 {
				inRow[j] = true
			}
		}
	}

	x := make([]float64, n)
	var cols []int
	for j := 0; j < n; j++ {
		lo, hi := b.lower[j], b.upper[j]
		if lo > hi+feasTol {
			return relaxed{status: StatusInfeasible}, nil
		}
		x[j] = lo
		switch {
		case hi-lo <= feasTol:
			// fixed
		case !inRow[j]:
			if m.improves(m.objective[j]) {
				if math.IsInf(hi, 1) {
					return relaxed{status: StatusUnbounded}, nil
				}
				x[j] = hi
			}
		default:
			cols = append(cols, j)
		}
	}

	type stdRow struct {
		coefs []float64
		slack float64 // +1 for <=, -1 for >=, 0 for =
		rhs   float64
	}
	var rows []stdRow

	for i, c := range m.constraints {
		rhs := c.RHS - dot(m.rows[i], x)
		coefs := make([]float64, len(cols))
		nonZero := false
		for k, j := range cols {
			coefs[k] = m.rows[i][j]
			if coefs[k] != 0 {
				nonZero = true
			}
		}
		if !nonZero {
			if !satisfied(0, c.Op, rhs, feasTol) {
				return relaxed{status: StatusInfeasible}, nil
			}
			continue
		}
		r := stdRow{coefs: coefs, rhs: rhs}
		switch c.Op {
		case LessEqual:
			r.slack = 1
		case GreaterEqual:
			r.slack = -1
		}
		rows = append(rows, r)
	}
	for k, j := range cols {
		if math.IsInf(b.upper[j], 1) {
			continue
		}
		coefs := make([]float64, len(cols))
		coefs[k] = 1
		rows = append(rows, stdRow{coefs: coefs, slack: 1, rhs: b.upper[j] - b.lower[j]})
	}

	if len(cols) == 0 {
		return relaxed{status: StatusOptimal, x: x, objective: m.ObjectiveValue(x)}, nil
	}

	nSlack := 0
	for _, r := range rows {
		if r.slack != 0 {
			nSlack++
		}
	}
	nRows, nCols := len(rows), len(cols)+nSlack
	if nRows > nCols {
		return relaxed{}, fmt.Errorf("model %q: %d equality rows exceed %d columns", m.Name, nRows, nCols)
	}

	A := mat.NewDense(nRows, nCols, nil)
	rhs := make([]float64, nRows)
	s := len(cols)
	for i, r := range rows {
		sign := 1.0
		if r.rhs < 0 {
			sign = -1
		}
		for k, a := range r.coefs {
			A.Set(i, k, sign*a)
		}
		if r.slack != 0 {
			A.Set(i, s, sign*r.slack)
			s++
		}
		rhs[i] = sign * r.rhs
	}

	cost := make([]float64, nCols)
	for k, j := range cols {
		cost[k] = m.objective[j]
		if m.Sense == Maximize {
			cost[k] = -cost[k]
		}
	}

	_, xs, err := lp.Simplex(cost, A, rhs, tol, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return relaxed{status: StatusInfeasible}, nil
	case errors.Is(err, lp.ErrUnbounded):
		return relaxed{status: StatusUnbounded}, nil
	case err != nil:
		return relaxed{}, fmt.Errorf("model %q: simplex: %w", m.Name, err)
	}

	for k, j := range cols {
		x[j] = b.lower[j] + xs[k]
	}
	return relaxed{status: StatusOptimal, x: x, objective: m.ObjectiveValue(x)}, nil
}

func satisfied(lhs float64, op Operator, rhs, tol float64) bool {
	switch op {
	case LessEqual:
		return lhs <= rhs+tol
	case GreaterEqual:
		return lhs >= rhs-tol
	default:
		return math.Abs(lhs-rhs) <= tol
	}
}
