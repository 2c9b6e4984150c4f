package allocator

import (
	"context"
	"fmt"
	"math"

	"github.com/numlab/lpmc/api/v1alpha1"
	"github.com/numlab/lpmc/internal/config"
	"github.com/numlab/lpmc/internal/logging"
)

// SensitivityResult is the plan obtained under one scenario, compared with the base plan.
type SensitivityResult struct {
	Scenario config.ResolvedScenario
	Result   *Result
	// TotalChange is the scenario total minus the base total. NaN when either has no plan.
	TotalChange float64
}

// Report collects the base plan and the analyses derived from it.
type Report struct {
	RunID        string
	Base         *Result
	Alternatives []*Result
	Sensitivity  []SensitivityResult
}

// Sensitivity solves problem once per scenario and compares each total with base.
func (a *Allocator) Sensitivity(
	ctx context.Context,
	problem *v1alpha1.ProductionProblem,
	base *Result,
	scenarios []config.ResolvedScenario,
) ([]SensitivityResult, error) {
	logger := logging.FromContext(ctx)

	out := make([]SensitivityResult, 0, len(scenarios))
	for _, s := range scenarios {
		variant, err := s.Apply(problem)
		if err != nil {
			return nil, err
		}
		res, err := a.Allocate(ctx, variant)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		change := math.NaN()
		if res.HasSolution() && base != nil && base.HasSolution() {
			change = res.Total - base.Total
		}
		logger.V(logging.DEBUG).Info("Sensitivity scenario solved",
			"scenario", s.Name,
			"status", res.Status.String(),
			"total", res.Total,
			"change", change)
		out = append(out, SensitivityResult{Scenario: s, Result: res, TotalChange: change})
	}
	return out, nil
}

// AlternativeObjectives solves problem under each of its alternative objectives.
func (a *Allocator) AlternativeObjectives(ctx context.Context, problem *v1alpha1.ProductionProblem) ([]*Result, error) {
	out := make([]*Result, 0, len(problem.AlternativeObjectives))
	for _, obj := range problem.AlternativeObjectives {
		res, err := a.Allocate(ctx, problem.WithObjective(obj))
		if err != nil {
			return nil, fmt.Errorf("objective %q: %w", obj.Name, err)
		}
		out = append(out, res)
	}
	return out, nil
}

// Analyze solves the base problem, then its alternative objectives and sensitivity scenarios.
// The analyses are skipped when the base problem has no plan.
func (a *Allocator) Analyze(
	ctx context.Context,
	problem *v1alpha1.ProductionProblem,
	scenarios []config.ResolvedScenario,
) (*Report, error) {
	base, err := a.Allocate(ctx, problem)
	if err != nil {
		return nil, err
	}
	report := &Report{Base: base}
	if !base.HasSolution() {
		return report, nil
	}

	if report.Alternatives, err = a.AlternativeObjectives(ctx, problem); err != nil {
		return nil, err
	}
	if report.Sensitivity, err = a.Sensitivity(ctx, problem, base, scenarios); err != nil {
		return nil, err
	}
	return report, nil
}
