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

// Package metrics exposes allocation and estimation results as Prometheus gauges.
//
// Each Emitter owns a private registry, so results of one run never mix with another's.
// WriteText renders the registry in the Prometheus text exposition format.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/numlab/lpmc/internal/allocator"
	"github.com/numlab/lpmc/internal/estimator"
	"github.com/numlab/lpmc/pkg/solver"
)

const namespace = "lpmc"

// Label names.
const (
	LabelRunID     = "run_id"
	LabelCommand   = "command"
	LabelProblem   = "problem"
	LabelObjective = "objective"
	LabelProduct   = "product"
	LabelResource  = "resource"
	LabelScenario  = "scenario"
	LabelStatus    = "status"
	LabelMethod    = "method"
	LabelSamples   = "samples"
)

var statuses = []solver.Status{
	solver.StatusNotSolved,
	solver.StatusOptimal,
	solver.StatusFeasible,
	solver.StatusInfeasible,
	solver.StatusUnbounded,
}

// Emitter records run results as gauges.
type Emitter struct {
	registry *prometheus.Registry

	runInfo *prometheus.GaugeVec

	quantity    *prometheus.GaugeVec
	objective   *prometheus.GaugeVec
	total       *prometheus.GaugeVec
	status      *prometheus.GaugeVec
	nodes       *prometheus.GaugeVec
	slack       *prometheus.GaugeVec
	utilization *prometheus.GaugeVec
	scenario    *prometheus.GaugeVec

	estimate         *prometheus.GaugeVec
	absError         *prometheus.GaugeVec
	rmsError         *prometheus.GaugeVec
	convergenceSlope prometheus.Gauge
}

// NewEmitter creates an Emitter with all gauges registered on a fresh registry.
func NewEmitter() *Emitter {
	e := &Emitter{
		registry: prometheus.NewRegistry(),
		runInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "run_info",
			Help: "Always 1; labels identify the run.",
		}, []string{LabelRunID, LabelCommand}),
		quantity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "allocation", Name: "quantity",
			Help: "Planned quantity per product.",
		}, []string{LabelProblem, LabelObjective, LabelProduct}),
		objective: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "allocation", Name: "objective",
			Help: "Objective value of the plan.",
		}, []string{LabelProblem, LabelObjective}),
		total: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "allocation", Name: "total_units",
			Help: "Total units produced by the plan.",
		}, []string{LabelProblem, LabelObjective}),
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "solver", Name: "status",
			Help: "1 for the status the solver returned, 0 for the others.",
		}, []string{LabelProblem, LabelObjective, LabelStatus}),
		nodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "solver", Name: "nodes",
			Help: "LP relaxations solved.",
		}, []string{LabelProblem, LabelObjective}),
		slack: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "resource", Name: "slack",
			Help: "Unused amount of a resource under the base plan.",
		}, []string{LabelProblem, LabelResource}),
		utilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "resource", Name: "utilization_percent",
			Help: "Used share of a resource under the base plan.",
		}, []string{LabelProblem, LabelResource}),
		scenario: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "sensitivity", Name: "total_change",
			Help: "Change in total units against the base plan per scenario.",
		}, []string{LabelProblem, LabelScenario}),
		estimate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "integral", Name: "estimate",
			Help: "Integral value per method.",
		}, []string{LabelMethod}),
		absError: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "integral", Name: "abs_error",
			Help: "Absolute error against the analytical integral per method.",
		}, []string{LabelMethod}),
		rmsError: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "integral", Name: "rms_error",
			Help: "RMS error of repeated mean-value estimates per sample size.",
		}, []string{LabelSamples}),
		convergenceSlope: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "integral", Name: "convergence_slope",
			Help: "Slope of log RMS error against log sample size.",
		}),
	}
	e.registry.MustRegister(
		e.runInfo,
		e.quantity, e.objective, e.total, e.status, e.nodes,
		e.slack, e.utilization, e.scenario,
		e.estimate, e.absError, e.rmsError, e.convergenceSlope,
	)
	return e
}

// Registry returns the emitter's registry.
func (e *Emitter) Registry() *prometheus.Registry {
	return e.registry
}

// RecordRun records the run identity.
func (e *Emitter) RecordRun(runID, command string) {
	e.runInfo.WithLabelValues(runID, command).Set(1)
}

// RecordAllocation records a solved allocation. Plan gauges are only set when the result has a plan.
func (e *Emitter) RecordAllocation(res *allocator.Result) {
	for _, s := range statuses {
		v := 0.0
		if s == res.Status {
			v = 1
		}
		e.status.WithLabelValues(res.Problem, res.Objective, s.String()).Set(v)
	}
	e.nodes.WithLabelValues(res.Problem, res.Objective).Set(float64(res.Nodes))
	if !res.HasSolution() {
		return
	}
	for _, p := range res.Products {
		e.quantity.WithLabelValues(res.Problem, res.Objective, p).Set(res.Quantities[p])
	}
	e.objective.WithLabelValues(res.Problem, res.Objective).Set(res.ObjectiveValue)
	e.total.WithLabelValues(res.Problem, res.Objective).Set(res.Total)
}

// RecordAllocationReport records the base plan with its resource usage, the alternative
// objectives and the sensitivity scenarios.
func (e *Emitter) RecordAllocationReport(rep *allocator.Report) {
	e.RecordAllocation(rep.Base)
	for _, u := range rep.Base.Usage {
		e.slack.WithLabelValues(rep.Base.Problem, u.Name).Set(u.Slack)
		e.utilization.WithLabelValues(rep.Base.Problem, u.Name).Set(u.UtilizationPercent())
	}
	for _, alt := range rep.Alternatives {
		e.RecordAllocation(alt)
	}
	for _, s := range rep.Sensitivity {
		e.scenario.WithLabelValues(rep.Base.Problem, s.Scenario.Name).Set(s.TotalChange)
	}
}

// RecordEstimation records the final value and error of every method and the convergence study.
func (e *Emitter) RecordEstimation(rep *estimator.Report) {
	for _, row := range rep.Summary {
		e.estimate.WithLabelValues(row.Method).Set(row.Value)
		e.absError.WithLabelValues(row.Method).Set(row.AbsoluteError)
	}
	if rep.Convergence != nil {
		for _, p := range rep.Convergence.Points {
			e.rmsError.WithLabelValues(fmt.Sprint(p.Samples)).Set(p.RMSError)
		}
		e.convergenceSlope.Set(rep.Convergence.Slope)
	}
}

// WriteText writes all gathered metrics in the Prometheus text format.
func (e *Emitter) WriteText(w io.Writer) error {
	families, err := e.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
