package estimator

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/numlab/lpmc/internal/config"
	"github.com/numlab/lpmc/pkg/montecarlo"
)

func testConfig() *config.EstimatorConfig {
	return &config.EstimatorConfig{
		Lower:            0,
		Upper:            2,
		Coefficients:     []float64{0, 0, 1},
		Samples:          50000,
		GeometricSamples: 50000,
		SampleSizes:      []int{100, 1000, 10000},
		Trials:           5,
		Seed:             ptr.To[uint64](42),
		GridPoints:       montecarlo.DefaultGridPoints,
		QuadraturePoints: montecarlo.DefaultQuadraturePoints,
	}
}

func TestNewRunner(t *testing.T) {
	_, err := NewRunner(nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Lower, cfg.Upper = 2, 0
	_, err = NewRunner(cfg)
	assert.ErrorIs(t, err, montecarlo.ErrInvalidInterval)
}

func TestRunSquare(t *testing.T) {
	r, err := NewRunner(testConfig())
	require.NoError(t, err)

	rep, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 8.0/3.0, rep.Analytical, 1e-12)
	assert.InDelta(t, 8.0/3.0, rep.Quadrature.Value, 1e-12)

	require.NotNil(t, rep.MeanValue)
	assert.Len(t, rep.MeanValue.History, 50000)
	assert.InDelta(t, 8.0/3.0, rep.MeanValue.Estimate, 0.07)
	assert.Less(t, rep.RelativeErrorPercent, 5.0)
	assert.Contains(t, []montecarlo.Accuracy{montecarlo.AccuracyExcellent, montecarlo.AccuracyGood}, rep.Accuracy)

	require.Len(t, rep.Comparison, 3)
	assert.Equal(t, 10000, rep.Comparison[2].Samples)

	require.NotNil(t, rep.HitOrMiss)
	assert.Empty(t, rep.HitOrMissSkipped)
	assert.Equal(t, 4.0, rep.HitOrMiss.Height)
	assert.InDelta(t, 8.0/3.0, rep.HitOrMiss.Estimate, 0.12)

	require.NotNil(t, rep.Convergence)
	assert.Len(t, rep.Convergence.Points, 3)
	assert.Less(t, rep.Convergence.Slope, 0.0)

	require.Len(t, rep.Summary, 4)
	methods := make([]string, len(rep.Summary))
	for i, row := range rep.Summary {
		methods[i] = row.Method
	}
	assert.Equal(t, []string{MethodAnalytical, MethodQuadrature, MethodMeanValue, MethodHitOrMiss}, methods)
	assert.Zero(t, rep.Summary[0].AbsoluteError)
	assert.InDelta(t, math.Abs(rep.MeanValue.Estimate-rep.Analytical), rep.Summary[2].AbsoluteError, 1e-12)
}

func TestRunIsReproducible(t *testing.T) {
	run := func() *Report {
		r, err := NewRunner(testConfig())
		require.NoError(t, err)
		rep, err := r.Run(context.Background())
		require.NoError(t, err)
		return rep
	}
	first, second := run(), run()
	assert.Equal(t, first.MeanValue.Estimate, second.MeanValue.Estimate)
	assert.Equal(t, first.HitOrMiss.Hits, second.HitOrMiss.Hits)
	assert.Equal(t, first.Comparison, second.Comparison)
}

func TestRunSkipsHitOrMissForNonPositiveFunction(t *testing.T) {
	cfg := testConfig()
	cfg.Coefficients = []float64{-1}
	cfg.Samples = 100
	cfg.GeometricSamples = 100
	cfg.SampleSizes = []int{10, 100}
	r, err := NewRunner(cfg)
	require.NoError(t, err)

	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rep.HitOrMiss)
	assert.NotEmpty(t, rep.HitOrMissSkipped)
	assert.Len(t, rep.Summary, 3)
	assert.InDelta(t, -2, rep.MeanValue.Estimate, 1e-12)
}

func TestRunWithZeroIntegral(t *testing.T) {
	cfg := testConfig()
	cfg.Lower, cfg.Upper = -1, 1
	cfg.Coefficients = []float64{0, 1}
	cfg.Samples = 1000
	cfg.GeometricSamples = 1000
	cfg.SampleSizes = []int{100}
	r, err := NewRunner(cfg)
	require.NoError(t, err)

	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, math.IsNaN(rep.RelativeErrorPercent))
	assert.Equal(t, montecarlo.AccuracyLow, rep.Accuracy)
	assert.Nil(t, rep.Convergence)
}

func TestRunCancelled(t *testing.T) {
	r, err := NewRunner(testConfig())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
