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
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/numlab/lpmc/internal/config"
	"github.com/numlab/lpmc/internal/estimator"
	"github.com/numlab/lpmc/internal/logging"
	"github.com/numlab/lpmc/internal/metrics"
	"github.com/numlab/lpmc/internal/report"
	"github.com/numlab/lpmc/internal/sysinfo"
)

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
		Use:   "estimator",
		Short: "Estimate a definite integral with Monte Carlo sampling",
		Long: `estimator integrates a polynomial (x^2 on [0, 2] by default) with the mean-value and
hit-or-miss Monte Carlo methods and compares the results with the analytical integral
and Gauss-Legendre quadrature. Use --seed for reproducible runs.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadEstimatorConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	config.AddEstimatorFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cfg *config.EstimatorConfig, out io.Writer) error {
	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	logger = logger.WithName("estimator").WithValues("runID", runID)
	logging.SetLogger(logger)
	ctx = logging.IntoContext(ctx, logger)

	r, err := estimator.NewRunner(cfg)
	if err != nil {
		return err
	}
	rep, err := r.Run(ctx)
	if err != nil {
		return err
	}
	rep.RunID = runID

	header := report.Header{Title: "Monte Carlo integration", RunID: runID}
	if cfg.SysInfo {
		host, err := sysinfo.Collect(ctx)
		if err != nil {
			logger.V(logging.DEBUG).Info("Incomplete host information", "error", err.Error())
		}
		header.Host = &host
	}
	if err := report.WriteEstimation(out, header, rep); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if cfg.Metrics {
		e := metrics.NewEmitter()
		e.RecordRun(runID, "estimator")
		e.RecordEstimation(rep)
		fmt.Fprintln(out)
		if err := e.WriteText(out); err != nil {
			return err
		}
	}
	return nil
}
