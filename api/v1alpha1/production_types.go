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

// Package v1alpha1 defines the production planning problem consumed by the allocator.
package v1alpha1

import (
	"fmt"
	"math"
)

// ProductionProblem describes a production planning problem: a set of limited resources,
// a set of products consuming them, and a linear objective over product quantities.
type ProductionProblem struct {
	// Name identifies the problem in reports and metrics.
	Name string `yaml:"name" json:"name"`

	// Resources are the limited inputs shared by all products.
	Resources []Resource `yaml:"resources" json:"resources"`

	// Products are the decision variables of the problem.
	Products []Product `yaml:"products" json:"products"`

	// Objective is the primary objective, always maximized.
	Objective Objective `yaml:"objective" json:"objective"`

	// AlternativeObjectives are solved against the same constraints for comparison.
	// +optional
	AlternativeObjectives []Objective `yaml:"alternativeObjectives,omitempty" json:"alternativeObjectives,omitempty"`

	// Scenarios are named resource limit overrides used for sensitivity analysis.
	// +optional
	Scenarios []Scenario `yaml:"scenarios,omitempty" json:"scenarios,omitempty"`
}

// Resource is a limited input with a fixed available amount.
type Resource struct {
	Name      string  `yaml:"name" json:"name"`
	Available float64 `yaml:"available" json:"available"`
}

// Product is a producible item. Its Recipe maps resource names to units consumed per unit produced.
type Product struct {
	Name   string             `yaml:"name" json:"name"`
	Recipe map[string]float64 `yaml:"recipe" json:"recipe"`

	// Continuous allows fractional quantities. Products are integer by default.
	// +optional
	Continuous bool `yaml:"continuous,omitempty" json:"continuous,omitempty"`
}

// Objective is a named linear objective. Weights maps product names to per-unit weights;
// products without a weight contribute nothing.
type Objective struct {
	Name    string             `yaml:"name" json:"name"`
	Weights map[string]float64 `yaml:"weights" json:"weights"`
}

// Scenario overrides the availability of one or more resources.
type Scenario struct {
	Name   string             `yaml:"name" json:"name"`
	Limits map[string]float64 `yaml:"limits" json:"limits"`
}

// Resource returns the resource with the given name, or nil.
func (p *ProductionProblem) Resource(name string) *Resource {
	for i := range p.Resources {
		if p.Resources[i].Name == name {
			return &p.Resources[i]
		}
	}
	return nil
}

// Product returns the product with the given name, or nil.
func (p *ProductionProblem) Product(name string) *Product {
	for i := range p.Products {
		if p.Products[i].Name == name {
			return &p.Products[i]
		}
	}
	return nil
}

// WithObjective returns a copy of the problem using obj as its primary objective.
func (p *ProductionProblem) WithObjective(obj Objective) *ProductionProblem {
	out := p.DeepCopy()
	out.Objective = *obj.DeepCopy()
	return out
}

// WithLimits returns a copy of the problem with the given resource availabilities overridden.
// Unknown resource names are reported as an error.
func (p *ProductionProblem) WithLimits(limits map[string]float64) (*ProductionProblem, error) {
	out := p.DeepCopy()
	for name, available := range limits {
		r := out.Resource(name)
		if r == nil {
			return nil, fmt.Errorf("unknown resource %q", name)
		}
		r.Available = available
	}
	return out, nil
}

// Validate checks the problem for structural errors.
func (p *ProductionProblem) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if len(p.Products) == 0 {
		return fmt.Errorf("at least one product is required")
	}

	resources := make(map[string]struct{}, len(p.Resources))
	for i, r := range p.Resources {
		if r.Name == "" {
			return fmt.Errorf("resources[%d]: name must not be empty", i)
		}
		if _, dup := resources[r.Name]; dup {
			return fmt.Errorf("resources[%d]: duplicate resource %q", i, r.Name)
		}
		if r.Available < 0 || math.IsNaN(r.Available) || math.IsInf(r.Available, 0) {
			return fmt.Errorf("resource %q: available must be a finite value >= 0, got %v", r.Name, r.Available)
		}
		resources[r.Name] = struct{}{}
	}

	products := make(map[string]struct{}, len(p.Products))
	for i, prod := range p.Products {
		if prod.Name == "" {
			return fmt.Errorf("products[%d]: name must not be empty", i)
		}
		if _, dup := products[prod.Name]; dup {
			return fmt.Errorf("products[%d]: duplicate product %q", i, prod.Name)
		}
		for res, units := range prod.Recipe {
			if _, ok := resources[res]; !ok {
				return fmt.Errorf("product %q: recipe references unknown resource %q", prod.Name, res)
			}
			if math.IsNaN(units) || math.IsInf(units, 0) {
				return fmt.Errorf("product %q: recipe coefficient for %q must be finite", prod.Name, res)
			}
		}
		products[prod.Name] = struct{}{}
	}

	if err := p.Objective.validate(products); err != nil {
		return fmt.Errorf("objective: %w", err)
	}
	for i := range p.AlternativeObjectives {
		if err := p.AlternativeObjectives[i].validate(products); err != nil {
			return fmt.Errorf("alternativeObjectives[%d]: %w", i, err)
		}
	}
	for i, s := range p.Scenarios {
		if s.Name == "" {
			return fmt.Errorf("scenarios[%d]: name must not be empty", i)
		}
		for res, available := range s.Limits {
			if _, ok := resources[res]; !ok {
				return fmt.Errorf("scenario %q: unknown resource %q", s.Name, res)
			}
			if available < 0 {
				return fmt.Errorf("scenario %q: limit for %q must be >= 0, got %v", s.Name, res, available)
			}
		}
	}
	return nil
}

func (o *Objective) validate(products map[string]struct{}) error {
	if o.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if len(o.Weights) == 0 {
		return fmt.Errorf("objective %q has no weights", o.Name)
	}
	for prod, w := range o.Weights {
		if _, ok := products[prod]; !ok {
			return fmt.Errorf("objective %q references unknown product %q", o.Name, prod)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("objective %q: weight for %q must be finite", o.Name, prod)
		}
	}
	return nil
}
