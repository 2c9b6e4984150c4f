package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrInvalidInterval    = errors.New("invalid integration interval")
	ErrInvalidSampleCount = errors.New("sample count must be positive")
	ErrNonPositiveMaximum = errors.New("function maximum on the interval is not positive")
)

// DefaultGridPoints is the number of grid points used to find the bounding rectangle height.
const DefaultGridPoints = 1000

// batchSize is the number of samples drawn between cancellation checks.
const batchSize = 1 << 14

// NewSource returns a PCG source seeded with seed, or with the current time when seed is nil.
func NewSource(seed *uint64) rand.Source {
	var s uint64
	if seed != nil {
		s = *seed
	} else {
		s = uint64(time.Now().UnixNano())
	}
	return rand.NewPCG(s, s^0x9e3779b97f4a7c15)
}

func validate(a, b float64, n int) error {
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) || a >= b {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidInterval, a, b)
	}
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleCount, n)
	}
	return nil
}

// RunningEstimate is a mean-value estimate updated one sample at a time.
type RunningEstimate struct {
	scale float64
	sum   float64
	count int
}

// NewRunningEstimate creates an estimate whose value is scale times the mean of the added samples.
func NewRunningEstimate(scale float64) *RunningEstimate {
	return &RunningEstimate{scale: scale}
}

// Add records one sample and returns the updated estimate.
func (r *RunningEstimate) Add(fx float64) float64 {
	r.sum += fx
	r.count++
	return r.Value()
}

// Value returns the current estimate, 0 before any sample.
func (r *RunningEstimate) Value() float64 {
	if r.count == 0 {
		return 0
	}
	return r.scale * r.sum / float64(r.count)
}

// Count returns the number of samples recorded.
func (r *RunningEstimate) Count() int {
	return r.count
}

// MeanValueResult is the outcome of the mean-value estimator.
type MeanValueResult struct {
	Estimate float64
	Samples  int
	// History holds the estimate after each sample; History[len-1] == Estimate.
	History []float64
}

// MeanValue estimates the integral of f over [a, b] from n uniform samples, keeping every partial estimate.
func MeanValue(ctx context.Context, f Func, a, b float64, n int, src rand.Source) (*MeanValueResult, error) {
	if err := validate(a, b, n); err != nil {
		return nil, err
	}
	history := make([]float64, 0, n)
	est, err := meanValue(ctx, f, a, b, n, src, func(v float64) {
		history = append(history, v)
	})
	if err != nil {
		return nil, err
	}
	logr.FromContextOrDiscard(ctx).V(1).Info("Mean-value estimate", "samples", n, "estimate", est)
	return &MeanValueResult{Estimate: est, Samples: n, History: history}, nil
}

// Estimate is MeanValue without the history.
func Estimate(ctx context.Context, f Func, a, b float64, n int, src rand.Source) (float64, error) {
	if err := validate(a, b, n); err != nil {
		return 0, err
	}
	return meanValue(ctx, f, a, b, n, src, nil)
}

func meanValue(ctx context.Context, f Func, a, b float64, n int, src rand.Source, observe func(float64)) (float64, error) {
	u := distuv.Uniform{Min: a, Max: b, Src: src}
	running := NewRunningEstimate(b - a)
	for i := 0; i < n; i++ {
		if i%batchSize == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		v := running.Add(f(u.Rand()))
		if observe != nil {
			observe(v)
		}
	}
	return running.Value(), nil
}

// MaxOnGrid returns the maximum of f over points evenly spaced grid points on [a, b], both ends included.
func MaxOnGrid(f Func, a, b float64, points int) (float64, error) {
	if points < 2 {
		return 0, fmt.Errorf("grid needs at least 2 points, got %d", points)
	}
	xs := floats.Span(make([]float64, points), a, b)
	ys := make([]float64, points)
	for i, x := range xs {
		ys[i] = f(x)
	}
	return floats.Max(ys), nil
}

// HitOrMissResult is the outcome of the hit-or-miss estimator.
type HitOrMissResult struct {
	Estimate float64
	Hits     int
	Total    int
	// Height is the bounding rectangle height, the grid maximum of f.
	Height float64
}

// Fraction returns the share of points that fell on or under the curve.
func (r *HitOrMissResult) Fraction() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Total)
}

// HitOrMiss estimates the integral of f over [a, b] by sampling n points in [a, b] x [0, max f],
// where max f is taken over gridPoints grid points. f is assumed non-negative on [a, b].
func HitOrMiss(ctx context.Context, f Func, a, b float64, n, gridPoints int, src rand.Source) (*HitOrMissResult, error) {
	if err := validate(a, b, n); err != nil {
		return nil, err
	}
	height, err := MaxOnGrid(f, a, b, gridPoints)
	if err != nil {
		return nil, err
	}
	if !(height > 0) || math.IsInf(height, 1) {
		return nil, fmt.Errorf("%w: %v", ErrNonPositiveMaximum, height)
	}

	ux := distuv.Uniform{Min: a, Max: b, Src: src}
	uy := distuv.Uniform{Min: 0, Max: height, Src: src}
	hits := 0
	for i := 0; i < n; i++ {
		if i%batchSize == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		x := ux.Rand()
		y := uy.Rand()
		if y <= f(x) {
			hits++
		}
	}

	res := &HitOrMissResult{Hits: hits, Total: n, Height: height}
	res.Estimate = (b - a) * height * res.Fraction()
	logr.FromContextOrDiscard(ctx).V(1).Info("Hit-or-miss estimate",
		"samples", n, "hits", hits, "height", height, "estimate", res.Estimate)
	return res, nil
}
