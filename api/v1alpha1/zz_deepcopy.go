package v1alpha1

// DeepCopy returns an independent copy of the problem.
func (p *ProductionProblem) DeepCopy() *ProductionProblem {
	if p == nil {
		return nil
	}
	out := &ProductionProblem{Name: p.Name}
	if p.Resources != nil {
		out.Resources = make([]Resource, len(p.Resources))
		copy(out.Resources, p.Resources)
	}
	if p.Products != nil {
		out.Products = make([]Product, len(p.Products))
		for i := range p.Products {
			out.Products[i] = *p.Products[i].DeepCopy()
		}
	}
	out.Objective = *p.Objective.DeepCopy()
	if p.AlternativeObjectives != nil {
		out.AlternativeObjectives = make([]Objective, len(p.AlternativeObjectives))
		for i := range p.AlternativeObjectives {
			out.AlternativeObjectives[i] = *p.AlternativeObjectives[i].DeepCopy()
		}
	}
	if p.Scenarios != nil {
		out.Scenarios = make([]Scenario, len(p.Scenarios))
		for i := range p.Scenarios {
			out.Scenarios[i] = *p.Scenarios[i].DeepCopy()
		}
	}
	return out
}

// DeepCopy returns an independent copy of the product.
func (in *Product) DeepCopy() *Product {
	if in == nil {
		return nil
	}
	out := *in
	out.Recipe = copyFloatMap(in.Recipe)
	return &out
}

// DeepCopy returns an independent copy of the objective.
func (in *Objective) DeepCopy() *Objective {
	if in == nil {
		return nil
	}
	out := *in
	out.Weights = copyFloatMap(in.Weights)
	return &out
}

// DeepCopy returns an independent copy of the scenario.
func (in *Scenario) DeepCopy() *Scenario {
	if in == nil {
		return nil
	}
	out := *in
	out.Limits = copyFloatMap(in.Limits)
	return &out
}

func copyFloatMap(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
