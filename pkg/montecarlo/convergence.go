package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/stat"
)

// DefaultSampleSizes are the sample sizes of the comparison table.
var DefaultSampleSizes = []int{100, 1000, 10000, 100000, 1000000}

// ComparisonRow is the mean-value estimate for one sample size.
type ComparisonRow struct {
	Samples       int
	Estimate      float64
	AbsoluteError float64
	// RelativeErrorPercent is NaN when the reference is zero.
	RelativeErrorPercent float64
}

// Compare runs the mean-value estimator once per sample size and measures each result against reference.
func Compare(ctx context.Context, f Func, a, b, reference float64, sizes []int, src rand.Source) ([]ComparisonRow, error) {
	rows := make([]ComparisonRow, 0, len(sizes))
	for _, n := range sizes {
		est, err := Estimate(ctx, f, a, b, n, src)
		if err != nil {
			return nil, fmt.Errorf("sample size %d: %w", n, err)
		}
		rel, err := RelativeErrorPercent(est, reference)
		if errors.Is(err, ErrZeroReference) {
			rel = math.NaN()
		}
		rows = append(rows, ComparisonRow{
			Samples:              n,
			Estimate:             est,
			AbsoluteError:        AbsoluteError(est, reference),
			RelativeErrorPercent: rel,
		})
	}
	return rows, nil
}

// ConvergencePoint is the root-mean-square error of repeated estimates at one sample size.
type ConvergencePoint struct {
	Samples  int
	RMSError float64
}

// Convergence is the outcome of a convergence study.
type Convergence struct {
	Points []ConvergencePoint
	Trials int
	// Slope is the least-squares slope of log(RMSError) against log(Samples); about -0.5
	// for Monte Carlo. NaN when fewer than two points have a non-zero error.
	Slope float64
	// Intercept is the matching intercept in log space.
	Intercept float64
}

// ConvergenceRate repeats the mean-value estimator trials times for every sample size and
// fits the decay of the RMS error against reference.
func ConvergenceRate(ctx context.Context, f Func, a, b, reference float64, sizes []int, trials int, src rand.Source) (*Convergence, error) {
	if trials <= 0 {
		return nil, fmt.Errorf("%w: trials %d", ErrInvalidSampleCount, trials)
	}
	if len(sizes) < 2 {
		return nil, fmt.Errorf("convergence needs at least 2 sample sizes, got %d", len(sizes))
	}
	logger := logr.FromContextOrDiscard(ctx)

	conv := &Convergence{Trials: trials, Slope: math.NaN(), Intercept: math.NaN()}
	squared := make([]float64, trials)
	var logN, logErr []float64
	for _, n := range sizes {
		for t := range squared {
			est, err := Estimate(ctx, f, a, b, n, src)
			if err != nil {
				return nil, fmt.Errorf("sample size %d: %w", n, err)
			}
			d := est - reference
			squared[t] = d * d
		}
		rms := math.Sqrt(stat.Mean(squared, nil))
		conv.Points = append(conv.Points, ConvergencePoint{Samples: n, RMSError: rms})
		logger.V(2).Info("Convergence point", "samples", n, "rmsError", rms)
		if rms > 0 {
			logN = append(logN, math.Log(float64(n)))
			logErr = append(logErr, math.Log(rms))
		}
	}

	if len(logN) >= 2 {
		conv.Intercept, conv.Slope = stat.LinearRegression(logN, logErr, nil, false)
	}
	return conv, nil
}
