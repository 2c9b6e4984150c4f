package config

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
	"k8s.io/utils/ptr"

	"github.com/numlab/lpmc/pkg/montecarlo"
)

// Estimator flags.
const (
	FlagLower            = "lower"
	FlagUpper            = "upper"
	FlagCoefficients     = "coefficients"
	FlagSamples          = "samples"
	FlagGeometricSamples = "geometric-samples"
	FlagSampleSizes      = "sample-sizes"
	FlagTrials           = "trials"
	FlagSeed             = "seed"
	FlagGridPoints       = "grid-points"
	FlagQuadraturePoints = "quadrature-points"
)

// Estimator defaults.
const (
	DefaultSamples          = 100000
	DefaultGeometricSamples = 10000
	DefaultTrials           = 10
)

// EstimatorConfig configures the estimator command.
type EstimatorConfig struct {
	Common

	Lower float64
	Upper float64
	// Coefficients of the integrand in ascending order of degree.
	Coefficients     []float64
	Samples          int
	GeometricSamples int
	SampleSizes      []int
	Trials           int
	// Seed makes runs reproducible. Nil seeds from the clock.
	Seed             *uint64
	GridPoints       int
	QuadraturePoints int
}

// AddEstimatorFlags registers the estimator flags on fs.
func AddEstimatorFlags(fs *pflag.FlagSet) {
	addCommonFlags(fs)
	fs.Float64(FlagLower, 0, "lower integration bound")
	fs.Float64(FlagUpper, 2, "upper integration bound")
	fs.StringSlice(FlagCoefficients, []string{"0", "0", "1"}, "integrand coefficients in ascending degree")
	fs.Int(FlagSamples, DefaultSamples, "samples for the main mean-value estimate")
	fs.Int(FlagGeometricSamples, DefaultGeometricSamples, "samples for the hit-or-miss estimate")
	fs.StringSlice(FlagSampleSizes, intsToStrings(montecarlo.DefaultSampleSizes), "sample sizes of the comparison table and convergence study")
	fs.Int(FlagTrials, DefaultTrials, "repetitions per sample size in the convergence study")
	fs.Uint64(FlagSeed, 0, "random seed; the clock is used when unset")
	fs.Int(FlagGridPoints, montecarlo.DefaultGridPoints, "grid points used to bound the function for hit-or-miss")
	fs.Int(FlagQuadraturePoints, montecarlo.DefaultQuadraturePoints, "Gauss-Legendre points for the quadrature baseline")
}

// LoadEstimatorConfig resolves the estimator configuration from fs, the environment and the config file.
func LoadEstimatorConfig(fs *pflag.FlagSet) (*EstimatorConfig, error) {
	v, err := newViper(fs)
	if err != nil {
		return nil, err
	}
	coefficients, err := parseFloats(FlagCoefficients, v.GetStringSlice(FlagCoefficients))
	if err != nil {
		return nil, err
	}
	sizes, err := parseInts(FlagSampleSizes, v.GetStringSlice(FlagSampleSizes))
	if err != nil {
		return nil, err
	}
	cfg := &EstimatorConfig{
		Common:           loadCommon(v),
		Lower:            v.GetFloat64(FlagLower),
		Upper:            v.GetFloat64(FlagUpper),
		Coefficients:     coefficients,
		Samples:          v.GetInt(FlagSamples),
		GeometricSamples: v.GetInt(FlagGeometricSamples),
		SampleSizes:      sizes,
		Trials:           v.GetInt(FlagTrials),
		GridPoints:       v.GetInt(FlagGridPoints),
		QuadraturePoints: v.GetInt(FlagQuadraturePoints),
	}
	if v.IsSet(FlagSeed) {
		cfg.Seed = ptr.To(v.GetUint64(FlagSeed))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid estimator configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks for invalid configuration values.
func (c *EstimatorConfig) Validate() error {
	if !(c.Lower < c.Upper) {
		return fmt.Errorf("%w: lower (%v) must be below upper (%v)", montecarlo.ErrInvalidInterval, c.Lower, c.Upper)
	}
	if len(c.Coefficients) == 0 {
		return fmt.Errorf("coefficients must not be empty")
	}
	if c.Samples <= 0 || c.GeometricSamples <= 0 {
		return fmt.Errorf("%w: samples %d, geometric-samples %d", montecarlo.ErrInvalidSampleCount, c.Samples, c.GeometricSamples)
	}
	if len(c.SampleSizes) == 0 {
		return fmt.Errorf("sample-sizes must not be empty")
	}
	for _, n := range c.SampleSizes {
		if n <= 0 {
			return fmt.Errorf("%w: sample size %d", montecarlo.ErrInvalidSampleCount, n)
		}
	}
	if c.Trials <= 0 {
		return fmt.Errorf("trials must be > 0, got %d", c.Trials)
	}
	if c.GridPoints < 2 {
		return fmt.Errorf("grid-points must be >= 2, got %d", c.GridPoints)
	}
	if c.QuadraturePoints < 2 {
		return fmt.Errorf("quadrature-points must be >= 2, got %d", c.QuadraturePoints)
	}
	return nil
}

// Integrand returns the configured polynomial.
func (c *EstimatorConfig) Integrand() montecarlo.Polynomial {
	return montecarlo.Polynomial(c.Coefficients)
}

func intsToStrings(in []int) []string {
	out := make([]string, len(in))
	for i, n := range in {
		out[i] = strconv.Itoa(n)
	}
	return out
}
