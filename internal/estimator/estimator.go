// Package estimator runs the Monte Carlo integration study: analytical and quadrature baselines,
// the mean-value estimate with its convergence history, a comparison over sample sizes,
// the hit-or-miss estimate and the convergence rate.
package estimator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/numlab/lpmc/internal/config"
	"github.com/numlab/lpmc/internal/logging"
	"github.com/numlab/lpmc/pkg/montecarlo"
)

// Method names used in summaries and metrics.
const (
	MethodAnalytical = "analytical"
	MethodQuadrature = "quadrature"
	MethodMeanValue  = "mean-value"
	MethodHitOrMiss  = "hit-or-miss"
)

// SummaryRow is the final value of one method with its error against the analytical integral.
type SummaryRow struct {
	Method        string
	Value         float64
	AbsoluteError float64
}

// Report is the outcome of one estimator run.
type Report struct {
	RunID     string
	Integrand montecarlo.Polynomial
	Lower     float64
	Upper     float64
	Seed      *uint64

	Analytical float64
	Quadrature *montecarlo.QuadratureResult

	MeanValue *montecarlo.MeanValueResult
	// RelativeErrorPercent of the mean-value estimate. NaN when the analytical integral is zero.
	RelativeErrorPercent float64
	Accuracy             montecarlo.Accuracy

	Comparison []montecarlo.ComparisonRow

	// HitOrMiss is nil when it was skipped; HitOrMissSkipped then holds the reason.
	HitOrMiss        *montecarlo.HitOrMissResult
	HitOrMissSkipped string

	Convergence *montecarlo.Convergence

	Summary []SummaryRow
}

// Runner runs the estimation pipeline for one configuration.
type Runner struct {
	cfg *config.EstimatorConfig
	src rand.Source
}

// NewRunner creates a Runner. The random source is seeded from cfg.Seed, or from the clock when unset.
func NewRunner(cfg *config.EstimatorConfig) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, src: montecarlo.NewSource(cfg.Seed)}, nil
}

// Run executes every stage in order and returns the report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	logger := logging.FromContext(ctx)
	ctx = logging.IntoContext(ctx, logger)

	cfg := r.cfg
	p := cfg.Integrand()
	f := p.Func()
	a, b := cfg.Lower, cfg.Upper

	rep := &Report{Integrand: p, Lower: a, Upper: b, Seed: cfg.Seed}
	rep.Analytical = p.Integral(a, b)
	logger.Info("Analytical integral", "integrand", p.String(), "lower", a, "upper", b, "value", rep.Analytical)

	q, err := montecarlo.Quadrature(f, a, b, cfg.QuadraturePoints)
	if err != nil {
		return nil, fmt.Errorf("quadrature: %w", err)
	}
	rep.Quadrature = q
	logger.V(logging.DEBUG).Info("Quadrature baseline", "value", q.Value, "errorEstimate", q.ErrorEstimate)

	mv, err := montecarlo.MeanValue(ctx, f, a, b, cfg.Samples, r.src)
	if err != nil {
		return nil, fmt.Errorf("mean-value estimate: %w", err)
	}
	rep.MeanValue = mv
	rep.RelativeErrorPercent, err = montecarlo.RelativeErrorPercent(mv.Estimate, rep.Analytical)
	if errors.Is(err, montecarlo.ErrZeroReference) {
		rep.RelativeErrorPercent = math.NaN()
		rep.Accuracy = montecarlo.AccuracyOf(math.Inf(1))
		logger.Info("Analytical integral is zero, relative error is undefined")
	} else {
		rep.Accuracy = montecarlo.AccuracyOf(rep.RelativeErrorPercent)
	}
	logger.Info("Mean-value estimate",
		"samples", cfg.Samples,
		"estimate", mv.Estimate,
		"absoluteError", montecarlo.AbsoluteError(mv.Estimate, rep.Analytical),
		"accuracy", rep.Accuracy)

	if rep.Comparison, err = montecarlo.Compare(ctx, f, a, b, rep.Analytical, cfg.SampleSizes, r.src); err != nil {
		return nil, fmt.Errorf("comparison: %w", err)
	}

	hm, err := montecarlo.HitOrMiss(ctx, f, a, b, cfg.GeometricSamples, cfg.GridPoints, r.src)
	switch {
	case errors.Is(err, montecarlo.ErrNonPositiveMaximum):
		rep.HitOrMissSkipped = err.Error()
		logger.Info("Skipping hit-or-miss estimate", "reason", err.Error())
	case err != nil:
		return nil, fmt.Errorf("hit-or-miss estimate: %w", err)
	default:
		rep.HitOrMiss = hm
	}

	if len(cfg.SampleSizes) >= 2 {
		if rep.Convergence, err = montecarlo.ConvergenceRate(ctx, f, a, b, rep.Analytical, cfg.SampleSizes, cfg.Trials, r.src); err != nil {
			return nil, fmt.Errorf("convergence rate: %w", err)
		}
		logger.Info("Convergence rate", "slope", rep.Convergence.Slope, "trials", cfg.Trials)
	}

	rep.Summary = summarize(rep)
	return rep, nil
}

func summarize(rep *Report) []SummaryRow {
	rows := []SummaryRow{
		{Method: MethodAnalytical, Value: rep.Analytical},
		{Method: MethodQuadrature, Value: rep.Quadrature.Value},
		{Method: MethodMeanValue, Value: rep.MeanValue.Estimate},
	}
	if rep.HitOrMiss != nil {
		rows = append(rows, SummaryRow{Method: MethodHitOrMiss, Value: rep.HitOrMiss.Estimate})
	}
	for i := range rows {
		rows[i].AbsoluteError = montecarlo.AbsoluteError(rows[i].Value, rep.Analytical)
	}
	return rows
}
