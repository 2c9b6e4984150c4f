package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numlab/lpmc/api/v1alpha1"
	"github.com/numlab/lpmc/pkg/montecarlo"
	"github.com/numlab/lpmc/pkg/solver"
)

func allocatorFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("allocator", pflag.ContinueOnError)
	AddAllocatorFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func estimatorFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("estimator", pflag.ContinueOnError)
	AddEstimatorFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAllocatorConfigDefaults(t *testing.T) {
	cfg, err := LoadAllocatorConfig(allocatorFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.ProblemFile)
	assert.Equal(t, solver.BranchAndBoundStrategy, cfg.SolverStrategy())
	assert.Equal(t, solver.DefaultOptions().MaxNodes, cfg.SolverOptions().MaxNodes)
	assert.Equal(t, DefaultSensitivityPercent, cfg.SensitivityPercent)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Metrics)
	assert.False(t, cfg.SysInfo)
}

func TestLoadAllocatorConfigPrecedence(t *testing.T) {
	path := writeFile(t, "lpmc.yaml", "strategy: relaxation\nmax-nodes: 11\nsensitivity-percent: 5\n")

	t.Run("config file overrides defaults", func(t *testing.T) {
		cfg, err := LoadAllocatorConfig(allocatorFlags(t, "--config", path))
		require.NoError(t, err)
		assert.Equal(t, solver.RelaxationStrategy, cfg.SolverStrategy())
		assert.Equal(t, 11, cfg.MaxNodes)
		assert.Equal(t, 5.0, cfg.SensitivityPercent)
	})

	t.Run("environment overrides config file", func(t *testing.T) {
		t.Setenv("LPMC_MAX_NODES", "22")
		cfg, err := LoadAllocatorConfig(allocatorFlags(t, "--config", path))
		require.NoError(t, err)
		assert.Equal(t, 22, cfg.MaxNodes)
	})

	t.Run("flags override environment", func(t *testing.T) {
		t.Setenv("LPMC_MAX_NODES", "22")
		cfg, err := LoadAllocatorConfig(allocatorFlags(t, "--config", path, "--max-nodes", "33", "--metrics"))
		require.NoError(t, err)
		assert.Equal(t, 33, cfg.MaxNodes)
		assert.True(t, cfg.Metrics)
	})
}

func TestLoadAllocatorConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "Unknown strategy", args: []string{"--strategy", "genetic"}},
		{name: "Negative node limit", args: []string{"--max-nodes", "-1"}},
		{name: "Sensitivity below -100%", args: []string{"--sensitivity-percent", "-100"}},
		{name: "Missing config file", args: []string{"--config", "/does/not/exist.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAllocatorConfig(allocatorFlags(t, tt.args...))
			assert.Error(t, err)
		})
	}
}

func TestLoadEstimatorConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadEstimatorConfig(estimatorFlags(t))
		require.NoError(t, err)
		assert.Equal(t, 0.0, cfg.Lower)
		assert.Equal(t, 2.0, cfg.Upper)
		assert.Equal(t, montecarlo.Square, cfg.Integrand())
		assert.Equal(t, DefaultSamples, cfg.Samples)
		assert.Equal(t, DefaultGeometricSamples, cfg.GeometricSamples)
		assert.Equal(t, montecarlo.DefaultSampleSizes, cfg.SampleSizes)
		assert.Equal(t, DefaultTrials, cfg.Trials)
		assert.Equal(t, montecarlo.DefaultGridPoints, cfg.GridPoints)
		assert.Nil(t, cfg.Seed)
	})

	t.Run("flags", func(t *testing.T) {
		cfg, err := LoadEstimatorConfig(estimatorFlags(t,
			"--lower", "1", "--upper", "3",
			"--coefficients", "1,0,2",
			"--sample-sizes", "10,20",
			"--seed", "42"))
		require.NoError(t, err)
		assert.Equal(t, 1.0, cfg.Lower)
		assert.Equal(t, 3.0, cfg.Upper)
		assert.Equal(t, []float64{1, 0, 2}, cfg.Coefficients)
		assert.Equal(t, []int{10, 20}, cfg.SampleSizes)
		require.NotNil(t, cfg.Seed)
		assert.Equal(t, uint64(42), *cfg.Seed)
	})

	t.Run("environment lists", func(t *testing.T) {
		t.Setenv("LPMC_SAMPLE_SIZES", "5,50,500")
		t.Setenv("LPMC_SEED", "7")
		cfg, err := LoadEstimatorConfig(estimatorFlags(t))
		require.NoError(t, err)
		assert.Equal(t, []int{5, 50, 500}, cfg.SampleSizes)
		require.NotNil(t, cfg.Seed)
		assert.Equal(t, uint64(7), *cfg.Seed)
	})

	t.Run("config file", func(t *testing.T) {
		path := writeFile(t, "estimator.yaml", "coefficients: [1, 1]\nsample-sizes: [100, 200]\ntrials: 3\n")
		cfg, err := LoadEstimatorConfig(estimatorFlags(t, "--config", path))
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 1}, cfg.Coefficients)
		assert.Equal(t, []int{100, 200}, cfg.SampleSizes)
		assert.Equal(t, 3, cfg.Trials)
	})
}

func TestLoadEstimatorConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "Reversed interval", args: []string{"--lower", "2", "--upper", "0"}, wantErr: montecarlo.ErrInvalidInterval},
		{name: "Zero samples", args: []string{"--samples", "0"}, wantErr: montecarlo.ErrInvalidSampleCount},
		{name: "Negative sample size", args: []string{"--sample-sizes", "10,-1"}, wantErr: montecarlo.ErrInvalidSampleCount},
		{name: "Bad coefficient", args: []string{"--coefficients", "1,x"}},
		{name: "Zero trials", args: []string{"--trials", "0"}},
		{name: "Single grid point", args: []string{"--grid-points", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadEstimatorConfig(estimatorFlags(t, tt.args...))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadProblem(t *testing.T) {
	t.Run("built-in problem", func(t *testing.T) {
		p, err := LoadProblem("")
		require.NoError(t, err)
		assert.Equal(t, v1alpha1.DefaultProblemName, p.Name)
	})

	t.Run("file", func(t *testing.T) {
		path := writeFile(t, "problem.yaml", `
name: bakery
resources:
  - name: flour
    available: 10
products:
  - name: bread
    recipe:
      flour: 2
objective:
  name: units
  weights:
    bread: 1
scenarios:
  - name: more flour
    limits:
      flour: 12
`)
		p, err := LoadProblem(path)
		require.NoError(t, err)
		assert.Equal(t, "bakery", p.Name)
		require.Len(t, p.Scenarios, 1)
		assert.Equal(t, 12.0, p.Scenarios[0].Limits["flour"])
	})

	t.Run("unknown field", func(t *testing.T) {
		path := writeFile(t, "problem.yaml", "name: x\nbogus: 1\n")
		_, err := LoadProblem(path)
		assert.Error(t, err)
	})

	t.Run("invalid problem", func(t *testing.T) {
		path := writeFile(t, "problem.yaml", "name: x\nresources: []\nproducts: []\n")
		_, err := LoadProblem(path)
		assert.ErrorContains(t, err, "at least one product is required")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadProblem(filepath.Join(t.TempDir(), "none.yaml"))
		assert.Error(t, err)
	})
}

func TestBuildScenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("one scenario per resource", func(t *testing.T) {
		problem := v1alpha1.DefaultProductionProblem()
		scenarios, err := BuildScenarios(ctx, problem, 10)
		require.NoError(t, err)
		require.Len(t, scenarios, 4)

		want := map[string]float64{
			v1alpha1.ResourceWater:      110,
			v1alpha1.ResourceSugar:      55,
			v1alpha1.ResourceLemonJuice: 33,
			v1alpha1.ResourceFruitPuree: 44,
		}
		for i, r := range problem.Resources {
			s := scenarios[i]
			assert.Equal(t, r.Name, s.Resource)
			assert.Equal(t, ScenarioName(r.Name, 10), s.Name)
			assert.InDelta(t, want[r.Name], s.Limits[r.Name], 1e-9)
		}
		assert.Equal(t, "Water +10%", scenarios[0].Name)
	})

	t.Run("declared scenarios come first and win on duplicates", func(t *testing.T) {
		problem := v1alpha1.DefaultProductionProblem()
		problem.Scenarios = []v1alpha1.Scenario{
			{Name: "Water +10%", Limits: map[string]float64{v1alpha1.ResourceWater: 150}},
			{Name: "Fruit boost", Limits: map[string]float64{v1alpha1.ResourceFruitPuree: 60}},
			{Name: "Fruit boost", Limits: map[string]float64{v1alpha1.ResourceFruitPuree: 80}},
		}
		scenarios, err := BuildScenarios(ctx, problem, 10)
		require.NoError(t, err)
		require.Len(t, scenarios, 5)
		assert.Equal(t, 150.0, scenarios[0].Limits[v1alpha1.ResourceWater])
		assert.Empty(t, scenarios[0].Resource)
		assert.Equal(t, 60.0, scenarios[1].Limits[v1alpha1.ResourceFruitPuree])
		assert.Equal(t, "Sugar +10%", scenarios[2].Name)
	})

	t.Run("zero percent disables generated scenarios", func(t *testing.T) {
		scenarios, err := BuildScenarios(ctx, v1alpha1.DefaultProductionProblem(), 0)
		require.NoError(t, err)
		assert.Empty(t, scenarios)
	})

	t.Run("invalid percent", func(t *testing.T) {
		_, err := BuildScenarios(ctx, v1alpha1.DefaultProductionProblem(), -100)
		assert.Error(t, err)
	})

	t.Run("apply", func(t *testing.T) {
		problem := v1alpha1.DefaultProductionProblem()
		scenarios, err := BuildScenarios(ctx, problem, 10)
		require.NoError(t, err)
		applied, err := scenarios[2].Apply(problem)
		require.NoError(t, err)
		assert.InDelta(t, 33, applied.Resource(v1alpha1.ResourceLemonJuice).Available, 1e-9)
		assert.Equal(t, 30.0, problem.Resource(v1alpha1.ResourceLemonJuice).Available)
	})
}
