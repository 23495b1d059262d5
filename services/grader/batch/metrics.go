// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package batch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for batch runs.
var (
	batchRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "famgrade_batch_runs_total",
		Help: "Total batch runs by outcome",
	}, []string{"outcome"})

	batchRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "famgrade_batch_run_duration_seconds",
		Help:    "Duration of batch runs",
		Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 30, 120},
	})

	batchRunSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "famgrade_batch_run_instances",
		Help:    "Number of instances per batch run",
		Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000},
	})

	batchRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "famgrade_batch_rows_total",
		Help: "Total result rows by bucket",
	}, []string{"bucket"})
)

// recordRunMetrics records one finished (or failed) batch run.
func recordRunMetrics(duration time.Duration, instances int, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	batchRunsTotal.WithLabelValues(outcome).Inc()
	batchRunDuration.Observe(duration.Seconds())
	if success {
		batchRunSize.Observe(float64(instances))
	}
}

// recordRowMetrics counts the result rows of a run by bucket.
func recordRowMetrics(results []Result) {
	for i := range results {
		switch {
		case !results[i].HasGeometry:
			batchRowsTotal.WithLabelValues("no_geometry").Inc()
		case results[i].IsError():
			batchRowsTotal.WithLabelValues("error").Inc()
		default:
			batchRowsTotal.WithLabelValues("graded").Inc()
		}
	}
}
