/*
Copyright 2026 The lpmc Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/numlab/lpmc/internal/allocator"
	"github.com/numlab/lpmc/internal/config"
	"github.com/numlab/lpmc/internal/logging"
	"github.com/numlab/lpmc/internal/metrics"
	"github.com/numlab/lpmc/internal/report"
	"github.com/numlab/lpmc/internal/sysinfo"
	"github.com/numlab/lpmc/pkg/solver"
)

// errNoPlan is returned when the base problem has no production plan.
var errNoPlan = errors.New("no production plan")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocator",
		Short: "Solve a production planning problem as an integer linear program",
		Long: `allocator maximizes production under limited resources. Without --problem it solves
the built-in beverage problem. The report covers the optimal plan, resource usage,
sensitivity to a percentage increase of each resource and alternative objectives.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadAllocatorConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	config.AddAllocatorFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cfg *config.AllocatorConfig, out io.Writer) error {
	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	logger = logger.WithName("allocator").WithValues("runID", runID)
	logging.SetLogger(logger)
	ctx = logging.IntoContext(ctx, logger)

	problem, err := config.LoadProblem(cfg.ProblemFile)
	if err != nil {
		return err
	}
	s, err := solver.NewSolver(cfg.SolverStrategy(), cfg.SolverOptions())
	if err != nil {
		return err
	}
	a, err := allocator.NewAllocator(s)
	if err != nil {
		return err
	}
	scenarios, err := config.BuildScenarios(ctx, problem, cfg.SensitivityPercent)
	if err != nil {
		return err
	}

	logger.Info("Solving production problem",
		"problem", problem.Name,
		"strategy", cfg.SolverStrategy().String(),
		"scenarios", len(scenarios))
	rep, err := a.Analyze(ctx, problem, scenarios)
	if err != nil {
		return err
	}
	rep.RunID = runID

	header := report.Header{Title: "Production plan", RunID: runID}
	if cfg.SysInfo {
		host, err := sysinfo.Collect(ctx)
		if err != nil {
			logger.V(logging.DEBUG).Info("Incomplete host information", "error", err.Error())
		}
		header.Host = &host
	}
	if err := report.WriteAllocation(out, header, problem, rep); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if cfg.Metrics {
		e := metrics.NewEmitter()
		e.RecordRun(runID, "allocator")
		e.RecordAllocationReport(rep)
		fmt.Fprintln(out)
		if err := e.WriteText(out); err != nil {
			return err
		}
	}

	if !rep.Base.HasSolution() {
		return fmt.Errorf("%w: status %s", errNoPlan, rep.Base.Status)
	}
	return nil
}
