package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAllocatorDefaultProblem(t *testing.T) {
	out, err := execute(t, "--metrics")
	require.NoError(t, err)

	assert.Contains(t, out, "Status: Optimal")
	assert.Contains(t, out, "Limiting resources: Lemon_Juice, Fruit_Puree")
	assert.Contains(t, out, "Fruit_Puree +10%")
	assert.Contains(t, out, "Total_Profit")
	assert.Contains(t, out, "lpmc_allocation_total_units")
}

func TestAllocatorRelaxationStrategy(t *testing.T) {
	out, err := execute(t, "--strategy", "relaxation", "--sensitivity-percent", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: Optimal (1 nodes)")
	assert.NotContains(t, out, "Sensitivity analysis")
}

func TestAllocatorUnboundedProblemFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "problem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: free
resources:
  - name: air
    available: 1
products:
  - name: breath
objective:
  name: units
  weights:
    breath: 1
`), 0o600))

	out, err := execute(t, "--problem", path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errNoPlan))
	assert.Contains(t, out, "No production plan: the problem is unbounded.")
}

func TestAllocatorInvalidFlags(t *testing.T) {
	_, err := execute(t, "--strategy", "annealing")
	assert.Error(t, err)

	_, err = execute(t, "extra-arg")
	assert.Error(t, err)
}
