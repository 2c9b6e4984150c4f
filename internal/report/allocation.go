// Package report renders run results as plain text.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/numlab/lpmc/api/v1alpha1"
	"github.com/numlab/lpmc/internal/allocator"
	"github.com/numlab/lpmc/internal/sysinfo"
)

// Header identifies a run at the top of a report.
type Header struct {
	Title string
	RunID string
	// Host is printed when set.
	Host *sysinfo.SysInfo
}

func writeHeader(w io.Writer, h Header) {
	fmt.Fprintln(w, h.Title)
	fmt.Fprintln(w, strings.Repeat("=", len(h.Title)))
	fmt.Fprintf(w, "Run: %s\n", h.RunID)
	if h.Host != nil {
		fmt.Fprintf(w, "Host: %s\n", h.Host)
	}
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// WriteProblem writes the problem statement: resources, recipes and objective.
func WriteProblem(w io.Writer, problem *v1alpha1.ProductionProblem) error {
	section(w, "Problem: "+problem.Name)
	tw := newTable(w)
	fmt.Fprintln(tw, "Resource\tAvailable")
	for _, r := range problem.Resources {
		fmt.Fprintf(tw, "%s\t%.6g\n", r.Name, r.Available)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	for _, p := range problem.Products {
		kind := "integer"
		if p.Continuous {
			kind = "continuous"
		}
		fmt.Fprintf(w, "%s (%s) = %s\n", p.Name, kind, recipe(problem, p))
	}
	fmt.Fprintf(w, "Maximize %s = %s\n", problem.Objective.Name, weights(problem, problem.Objective))
	return nil
}

func recipe(problem *v1alpha1.ProductionProblem, p v1alpha1.Product) string {
	var parts []string
	for _, r := range problem.Resources {
		if units, ok := p.Recipe[r.Name]; ok && units != 0 {
			parts = append(parts, fmt.Sprintf("%.6g %s", units, r.Name))
		}
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, " + ")
}

func weights(problem *v1alpha1.ProductionProblem, obj v1alpha1.Objective) string {
	var parts []string
	for _, p := range problem.Products {
		if w, ok := obj.Weights[p.Name]; ok && w != 0 {
			parts = append(parts, fmt.Sprintf("%.6g*%s", w, p.Name))
		}
	}
	return strings.Join(parts, " + ")
}

// WriteAllocation writes the full allocation report.
func WriteAllocation(w io.Writer, h Header, problem *v1alpha1.ProductionProblem, rep *allocator.Report) error {
	writeHeader(w, h)
	if err := WriteProblem(w, problem); err != nil {
		return err
	}

	base := rep.Base
	section(w, "Solution")
	fmt.Fprintf(w, "Status: %s (%d nodes)\n", base.Status, base.Nodes)
	if !base.HasSolution() {
		fmt.Fprintf(w, "No production plan: the problem is %s.\n", strings.ToLower(base.Status.String()))
		return nil
	}
	if err := writePlan(w, base); err != nil {
		return err
	}

	section(w, "Resource usage")
	tw := newTable(w)
	fmt.Fprintln(tw, "Resource\tUsed\tAvailable\tUtilization\tSlack\tLevel")
	for _, u := range base.Usage {
		fmt.Fprintf(tw, "%s\t%.6g\t%.6g\t%.1f%%\t%.6g\t%s\n",
			u.Name, u.Used, u.Available, u.UtilizationPercent(), u.Slack, u.Level())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(base.Limiting) > 0 {
		fmt.Fprintf(w, "Limiting resources: %s\n", strings.Join(base.Limiting, ", "))
	} else {
		fmt.Fprintln(w, "Every resource has slack left.")
	}

	if len(rep.Sensitivity) > 0 {
		section(w, "Sensitivity analysis")
		fmt.Fprintf(w, "Base plan: %s = %.6g total\n", planString(base), base.Total)
		tw = newTable(w)
		fmt.Fprintln(tw, "Scenario\tLimits\tStatus\tTotal\tChange")
		for _, s := range rep.Sensitivity {
			if !s.Result.HasSolution() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t-\t-\n", s.Scenario.Name, limits(s.Scenario.Limits), s.Result.Status)
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.6g\t%s\n",
				s.Scenario.Name, limits(s.Scenario.Limits), s.Result.Status, s.Result.Total, signed(s.TotalChange))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(rep.Alternatives) > 0 {
		section(w, "Alternative objectives")
		for _, alt := range rep.Alternatives {
			obj := objectiveByName(problem, alt.Objective)
			fmt.Fprintf(w, "%s = %s\n", alt.Objective, weights(problem, obj))
			if !alt.HasSolution() {
				fmt.Fprintf(w, "  Status: %s, no plan\n", alt.Status)
				continue
			}
			fmt.Fprintf(w, "  Plan: %s\n", planString(alt))
			fmt.Fprintf(w, "  Objective value: %.6g\n", alt.ObjectiveValue)
		}
	}
	return nil
}

func writePlan(w io.Writer, res *allocator.Result) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "Product\tQuantity")
	for _, p := range res.Products {
		fmt.Fprintf(tw, "%s\t%.6g\n", p, res.Quantities[p])
	}
	fmt.Fprintf(tw, "Total\t%.6g\n", res.Total)
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Objective %s: %.6g\n", res.Objective, res.ObjectiveValue)
	return nil
}

func planString(res *allocator.Result) string {
	parts := make([]string, 0, len(res.Products))
	for _, p := range res.Products {
		parts = append(parts, fmt.Sprintf("%.6g %s", res.Quantities[p], p))
	}
	return strings.Join(parts, " + ")
}

func objectiveByName(problem *v1alpha1.ProductionProblem, name string) v1alpha1.Objective {
	for _, o := range problem.AlternativeObjectives {
		if o.Name == name {
			return o
		}
	}
	return problem.Objective
}

func signed(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%+.6g", v)
}

func limits(m map[string]float64) string {
	parts := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		parts = append(parts, fmt.Sprintf("%s=%.6g", k, m[k]))
	}
	return strings.Join(parts, ", ")
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
