// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package grading

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for grading operations.
var (
	tracer = otel.Tracer("famgrade.grading")
	meter  = otel.Meter("famgrade.grading")
)

// Metrics for grading operations.
var (
	gradeLatency  metric.Float64Histogram
	gradesTotal   metric.Int64Counter
	overallScores metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		gradeLatency, err = meter.Float64Histogram(
			"grading_duration_seconds",
			metric.WithDescription("Duration of per-instance grading operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		gradesTotal, err = meter.Int64Counter(
			"grading_total",
			metric.WithDescription("Total number of grading operations by letter"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		overallScores, err = meter.Int64Histogram(
			"grading_overall_score",
			metric.WithDescription("Distribution of overall scores"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startGradeSpan creates a span for grading one fingerprint.
func startGradeSpan(ctx context.Context) (context.Context, trace.Span) {
	return tracer.Start(ctx, "grading.GradeAll")
}

// setGradeSpanResult sets result attributes on a grading span.
func setGradeSpanResult(span trace.Span, overall OverallGrade) {
	span.SetAttributes(
		attribute.String("grading.letter", string(overall.Letter)),
		attribute.Int("grading.score", overall.Score),
	)
}

// recordGradeMetrics records metrics for one grading operation.
func recordGradeMetrics(ctx context.Context, duration time.Duration, overall OverallGrade) {
	if err := initMetrics(); err != nil {
		return
	}

	gradeLatency.Record(ctx, duration.Seconds())
	gradesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("letter", string(overall.Letter)),
	))
	overallScores.Record(ctx, int64(overall.Score))
}
