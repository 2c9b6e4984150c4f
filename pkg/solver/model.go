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

	"k8s.io/utils/ptr"
)

var (
	ErrDuplicateVariable = errors.New("duplicate variable")
	ErrUnknownVariable   = errors.New("unknown variable")
	ErrInvalidBounds     = errors.New("invalid variable bounds")
	ErrEmptyModel        = errors.New("model has no variables")
)

// Sense is the optimization direction of the objective.
type Sense int

const (
	Maximize Sense = iota
	Minimize
)

func (s Sense) String() string {
	switch s {
	case Maximize:
		return "maximize"
	case Minimize:
		return "minimize"
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

// Operator is the relation of a constraint's left-hand side to its right-hand side.
type Operator int

const (
	LessEqual Operator = iota
	GreaterEqual
	Equal
)

func (o Operator) String() string {
	switch o {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Equal:
		return "="
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// Variable is a decision variable. Lower must be finite; a nil Upper means no upper bound.
type Variable struct {
	Name    string
	Lower   float64
	Upper   *float64
	Integer bool
}

// upperBound returns the variable's upper bound, +Inf when unset.
func (v Variable) upperBound() float64 {
	if v.Upper == nil {
		return math.Inf(1)
	}
	return *v.Upper
}

// Term is a coefficient applied to a named variable.
type Term struct {
	Var  string
	Coef float64
}

// T is shorthand for Term{Var: name, Coef: coef}.
func T(name string, coef float64) Term {
	return Term{Var: name, Coef: coef}
}

// Constraint is a linear constraint sum(Terms) Op RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Op    Operator
	RHS   float64
}

// Model is a linear program over named variables. Models are built incrementally and
// are not safe for concurrent modification.
type Model struct {
	Name  string
	Sense Sense

	vars        []Variable
	index       map[string]int
	objective   []float64
	constraints []Constraint
	// rows holds the dense coefficients of constraints, indexed like vars
	rows [][]float64
}

// NewModel creates an empty model.
func NewModel(name string, sense Sense) *Model {
	return &Model{
		Name:  name,
		Sense: sense,
		index: make(map[string]int),
	}
}

// AddVariable adds a decision variable. Variable{Name: "x"} is a non-negative continuous variable.
func (m *Model) AddVariable(v Variable) error {
	if v.Name == "" {
		return fmt.Errorf("variable name must not be empty")
	}
	if _, exists := m.index[v.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateVariable, v.Name)
	}
	upper := v.upperBound()
	if math.IsInf(v.Lower, 0) || math.IsNaN(v.Lower) || math.IsNaN(upper) || upper < v.Lower {
		return fmt.Errorf("%w: %q [%v, %v]", ErrInvalidBounds, v.Name, v.Lower, upper)
	}
	if v.Upper != nil {
		v.Upper = ptr.To(upper)
	}
	m.index[v.Name] = len(m.vars)
	m.vars = append(m.vars, v)
	m.objective = append(m.objective, 0)
	for i := range m.rows {
		m.rows[i] = append(m.rows[i], 0)
	}
	return nil
}

// SetObjective replaces the objective coefficients. Variables not mentioned get zero.
func (m *Model) SetObjective(terms ...Term) error {
	obj := make([]float64, len(m.vars))
	for _, t := range terms {
		j, ok := m.index[t.Var]
		if !ok {
			return fmt.Errorf("objective: %w: %q", ErrUnknownVariable, t.Var)
		}
		obj[j] += t.Coef
	}
	m.objective = obj
	return nil
}

// AddConstraint appends a constraint. Repeated terms on the same variable are summed.
func (m *Model) AddConstraint(c Constraint) error {
	row := make([]float64, len(m.vars))
	for _, t := range c.Terms {
		j, ok := m.index[t.Var]
		if !ok {
			return fmt.Errorf("constraint %q: %w: %q", c.Name, ErrUnknownVariable, t.Var)
		}
		if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
			return fmt.Errorf("constraint %q: coefficient for %q must be finite", c.Name, t.Var)
		}
		row[j] += t.Coef
	}
	if math.IsNaN(c.RHS) || math.IsInf(c.RHS, 0) {
		return fmt.Errorf("constraint %q: right-hand side must be finite", c.Name)
	}
	m.constraints = append(m.constraints, c)
	m.rows = append(m.rows, row)
	return nil
}

// Variables returns a copy of the model's variables in insertion order.
func (m *Model) Variables() []Variable {
	out := make([]Variable, len(m.vars))
	copy(out, m.vars)
	return out
}

// Constraints returns a copy of the model's constraints in insertion order.
func (m *Model) Constraints() []Constraint {
	out := make([]Constraint, len(m.constraints))
	copy(out, m.constraints)
	return out
}

// NumVariables returns the number of variables.
func (m *Model) NumVariables() int {
	return len(m.vars)
}

// ObjectiveValue evaluates the objective at x (indexed like Variables).
func (m *Model) ObjectiveValue(x []float64) float64 {
	return dot(m.objective, x)
}

// Activity evaluates the left-hand side of constraint i at x.
func (m *Model) Activity(i int, x []float64) float64 {
	return dot(m.rows[i], x)
}

// improves reports whether increasing a variable with objective coefficient c improves the objective.
func (m *Model) improves(c float64) bool {
	if m.Sense == Maximize {
		return c > 0
	}
	return c < 0
}

// better reports whether objective value a is strictly better than b by more than tol.
func (m *Model) better(a, b, tol float64) bool {
	if m.Sense == Maximize {
		return a > b+tol
	}
	return a < b-tol
}
