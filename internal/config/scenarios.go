package config

import (
	"context"
	"fmt"
	"math"

	"github.com/numlab/lpmc/api/v1alpha1"
	"github.com/numlab/lpmc/internal/logging"
)

// ResolvedScenario is a sensitivity scenario with the limits it changes, ready to be solved.
type ResolvedScenario struct {
	Name string
	// Resource is set for generated single-resource scenarios.
	Resource string
	// Limits are the overridden availabilities.
	Limits map[string]float64
}

// ScenarioName returns the name of the generated scenario raising resource by percent.
func ScenarioName(resource string, percent float64) string {
	return fmt.Sprintf("%s %+g%%", resource, percent)
}

// BuildScenarios returns the sensitivity scenarios for problem: first the scenarios declared
// in the problem, then one generated scenario per resource with its availability raised by
// percent. A percent of zero generates none. When two scenarios share a name the first wins.
func BuildScenarios(ctx context.Context, problem *v1alpha1.ProductionProblem, percent float64) ([]ResolvedScenario, error) {
	logger := logging.FromContext(ctx)

	if percent <= -100 || math.IsNaN(percent) || math.IsInf(percent, 0) {
		return nil, fmt.Errorf("sensitivity percent must be a finite value > -100, got %v", percent)
	}

	var candidates []ResolvedScenario
	for _, s := range problem.Scenarios {
		limits := make(map[string]float64, len(s.Limits))
		for res, available := range s.Limits {
			if problem.Resource(res) == nil {
				return nil, fmt.Errorf("scenario %q: unknown resource %q", s.Name, res)
			}
			limits[res] = available
		}
		candidates = append(candidates, ResolvedScenario{Name: s.Name, Limits: limits})
	}
	if percent != 0 {
		for _, r := range problem.Resources {
			candidates = append(candidates, ResolvedScenario{
				Name:     ScenarioName(r.Name, percent),
				Resource: r.Name,
				Limits:   map[string]float64{r.Name: r.Available * (1 + percent/100)},
			})
		}
	}

	out := make([]ResolvedScenario, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, s := range candidates {
		if _, dup := seen[s.Name]; dup {
			logger.Info("Duplicate scenario name found - first scenario wins", "scenario", s.Name)
			continue
		}
		seen[s.Name] = struct{}{}
		out = append(out, s)
	}

	logger.V(logging.DEBUG).Info("Built sensitivity scenarios",
		"declared", len(problem.Scenarios),
		"total", len(out))
	return out, nil
}

// Apply returns a copy of problem with the scenario's limits applied.
func (s ResolvedScenario) Apply(problem *v1alpha1.ProductionProblem) (*v1alpha1.ProductionProblem, error) {
	out, err := problem.WithLimits(s.Limits)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return out, nil
}
