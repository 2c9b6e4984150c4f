package report

import (
	"fmt"
	"io"
	"math"

	"github.com/numlab/lpmc/internal/estimator"
)

// HistoryCheckpoints returns the sample counts 1, 10, 100, ... up to n, plus n itself.
func HistoryCheckpoints(n int) []int {
	var out []int
	for c := 1; c <= n; c *= 10 {
		out = append(out, c)
	}
	if len(out) == 0 || out[len(out)-1] != n {
		out = append(out, n)
	}
	return out
}

func percent(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f%%", v)
}

// WriteEstimation writes the full estimation report.
func WriteEstimation(w io.Writer, h Header, rep *estimator.Report) error {
	writeHeader(w, h)

	section(w, "Parameters")
	fmt.Fprintf(w, "f(x) = %s on [%g, %g]\n", rep.Integrand, rep.Lower, rep.Upper)
	fmt.Fprintf(w, "Mean-value samples: %d\n", rep.MeanValue.Samples)
	if rep.Seed != nil {
		fmt.Fprintf(w, "Seed: %d\n", *rep.Seed)
	}

	section(w, "Baselines")
	fmt.Fprintf(w, "Analytical: %.8f\n", rep.Analytical)
	fmt.Fprintf(w, "Quadrature: %.8f (Gauss-Legendre, %d points, error estimate %.2e)\n",
		rep.Quadrature.Value, rep.Quadrature.Points, rep.Quadrature.ErrorEstimate)

	section(w, "Mean-value Monte Carlo")
	mv := rep.MeanValue
	fmt.Fprintf(w, "Estimate: %.8f\n", mv.Estimate)
	fmt.Fprintf(w, "Absolute error: %.8f\n", math.Abs(mv.Estimate-rep.Analytical))
	fmt.Fprintf(w, "Relative error: %s\n", percent(rep.RelativeErrorPercent))
	fmt.Fprintf(w, "Accuracy: %s\n", rep.Accuracy)

	tw := newTable(w)
	fmt.Fprintln(tw, "Samples\tRunning estimate\tAbsolute error")
	for _, c := range HistoryCheckpoints(len(mv.History)) {
		v := mv.History[c-1]
		fmt.Fprintf(tw, "%d\t%.6f\t%.6f\n", c, v, math.Abs(v-rep.Analytical))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	section(w, "Comparison by sample size")
	tw = newTable(w)
	fmt.Fprintln(tw, "Samples\tEstimate\tAbsolute error\tRelative error")
	for _, row := range rep.Comparison {
		fmt.Fprintf(tw, "%d\t%.6f\t%.6f\t%s\n", row.Samples, row.Estimate, row.AbsoluteError, percent(row.RelativeErrorPercent))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	section(w, "Hit-or-miss Monte Carlo")
	if hm := rep.HitOrMiss; hm != nil {
		fmt.Fprintf(w, "Points: %d\n", hm.Total)
		fmt.Fprintf(w, "Under the curve: %d\n", hm.Hits)
		fmt.Fprintf(w, "Fraction: %.4f\n", hm.Fraction())
		fmt.Fprintf(w, "Rectangle: [%g, %g] x [0, %g]\n", rep.Lower, rep.Upper, hm.Height)
		fmt.Fprintf(w, "Estimate: %.6f\n", hm.Estimate)
	} else {
		fmt.Fprintf(w, "Skipped: %s\n", rep.HitOrMissSkipped)
	}

	if conv := rep.Convergence; conv != nil {
		section(w, "Convergence")
		tw = newTable(w)
		fmt.Fprintf(tw, "Samples\tRMS error (%d trials)\n", conv.Trials)
		for _, p := range conv.Points {
			fmt.Fprintf(tw, "%d\t%.6e\n", p.Samples, p.RMSError)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if math.IsNaN(conv.Slope) {
			fmt.Fprintln(w, "Slope: n/a (errors are zero)")
		} else {
			fmt.Fprintf(w, "Slope of log error against log n: %.3f (Monte Carlo expects -0.5)\n", conv.Slope)
		}
	}

	section(w, "Summary")
	tw = newTable(w)
	fmt.Fprintln(tw, "Method\tValue\tAbsolute error")
	for _, row := range rep.Summary {
		fmt.Fprintf(tw, "%s\t%.8f\t%.8f\n", row.Method, row.Value, row.AbsoluteError)
	}
	return tw.Flush()
}
