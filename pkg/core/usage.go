package core

import (
	"fmt"
	"math"

	"github.com/numlab/lpmc/api/v1alpha1"
)

// slackTolerance is the amount of slack still treated as zero.
const slackTolerance = 1e-9

// highUtilizationPercent is the utilization above which a resource is reported as high.
const highUtilizationPercent = 80.0

// UsageLevel classifies how much of a resource is consumed.
type UsageLevel string

const (
	UsageNormal    UsageLevel = "Normal"
	UsageHigh      UsageLevel = "High"
	UsageExhausted UsageLevel = "Exhausted"
)

// ResourceUsage is the consumption of one resource by a production plan.
type ResourceUsage struct {
	Name      string
	Used      float64
	Available float64
	// Slack is Available - Used. Never negative for a feasible plan.
	Slack float64
}

// UtilizationPercent returns Used as a percentage of Available.
// A resource with nothing available is fully utilized if anything is used, unused otherwise.
func (u ResourceUsage) UtilizationPercent() float64 {
	if u.Available == 0 {
		if u.Used > 0 {
			return 100
		}
		return 0
	}
	return u.Used / u.Available * 100
}

// Level classifies the usage.
func (u ResourceUsage) Level() UsageLevel {
	switch {
	case u.Slack <= slackTolerance:
		return UsageExhausted
	case u.UtilizationPercent() > highUtilizationPercent:
		return UsageHigh
	default:
		return UsageNormal
	}
}

// AnalyzeUsage calculates the usage of every resource in problem, in the problem's resource
// order, for the given quantity per product. Products missing from quantities produce nothing.
func AnalyzeUsage(problem *v1alpha1.ProductionProblem, quantities map[string]float64) ([]ResourceUsage, error) {
	if problem == nil {
		return nil, fmt.Errorf("problem cannot be nil")
	}
	for name := range quantities {
		if problem.Product(name) == nil {
			return nil, fmt.Errorf("unknown product %q", name)
		}
	}

	used := make(map[string]float64, len(problem.Resources))
	for _, p := range problem.Products {
		q, ok := quantities[p.Name]
		if !ok || q == 0 {
			continue
		}
		for res, perUnit := range p.Recipe {
			used[res] += perUnit * q
		}
	}

	usage := make([]ResourceUsage, 0, len(problem.Resources))
	for _, r := range problem.Resources {
		slack := r.Available - used[r.Name]
		// Clear rounding noise from the solver.
		if math.Abs(slack) <= slackTolerance {
			slack = 0
		}
		usage = append(usage, ResourceUsage{
			Name:      r.Name,
			Used:      used[r.Name],
			Available: r.Available,
			Slack:     slack,
		})
	}
	return usage, nil
}

// LimitingResources returns the names of the resources with no slack left.
func LimitingResources(usage []ResourceUsage) []string {
	var limiting []string
	for _, u := range usage {
		if u.Slack <= slackTolerance {
			limiting = append(limiting, u.Name)
		}
	}
	return limiting
}

// Overused returns the resources whose usage exceeds availability.
func Overused(usage []ResourceUsage) []ResourceUsage {
	var out []ResourceUsage
	for _, u := range usage {
		if u.Slack < -slackTolerance {
			out = append(out, u)
		}
	}
	return out
}
