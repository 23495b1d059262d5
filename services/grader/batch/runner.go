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
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/FamGrade/pkg/logging"
	"github.com/AleutianAI/FamGrade/services/grader/geometry"
	"github.com/AleutianAI/FamGrade/services/grader/grading"
)

// CategoryAll is the category filter value meaning "no filter".
// Empty is equivalent.
const CategoryAll = "All"

// RunnerOptions configures a batch runner.
type RunnerOptions struct {
	// MaxDepth bounds descriptor tree recursion. Default: 64.
	MaxDepth int

	// Workers is the number of concurrent grading workers. 0 or 1 grades
	// sequentially, which matches the single-threaded extraction host.
	// Parallelism is safe here because geometry is already extracted.
	Workers int

	// TopRecommendations is how many recurring recommendations the report
	// surfaces. Default: 5.
	TopRecommendations int

	// DocumentName names the host document, echoed into the report.
	DocumentName string

	// Logger receives run progress. Nil uses the default logger.
	Logger *logging.Logger
}

// DefaultRunnerOptions returns sensible defaults.
func DefaultRunnerOptions() RunnerOptions {
	return RunnerOptions{
		MaxDepth:           geometry.DefaultMaxDepth,
		Workers:            0,
		TopRecommendations: 5,
	}
}

// Runner grades collections of instances into batch reports.
//
// # Description
//
// Runner drives one grading run through its states (idle, collecting,
// grading, aggregating, done). The central failure-handling contract: any
// error while grading a single instance produces an ERROR row and the run
// continues with the next instance. Only an empty input collection fails
// the whole run.
//
// # Thread Safety
//
// Safe for concurrent use; all per-run state lives on the stack of Run.
type Runner struct {
	agg     *geometry.Aggregator
	workers int
	topN    int
	docName string
	log     *logging.Logger
}

// NewRunner creates a batch runner.
//
// # Inputs
//
//   - opts: Runner options; nil uses defaults.
//
// # Outputs
//
//   - *Runner: Ready-to-use runner.
func NewRunner(opts *RunnerOptions) *Runner {
	if opts == nil {
		defaults := DefaultRunnerOptions()
		opts = &defaults
	}

	topN := opts.TopRecommendations
	if topN <= 0 {
		topN = 5
	}

	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}

	return &Runner{
		agg:     geometry.NewAggregator(&geometry.AggregatorOptions{MaxDepth: opts.MaxDepth}),
		workers: opts.Workers,
		topN:    topN,
		docName: opts.DocumentName,
		log:     log,
	}
}

// Run grades an instance collection and produces a batch report.
//
// # Description
//
// Filters the collection by the requested category, grades every remaining
// instance (input order preserved in the report regardless of worker
// count), and reduces the rows to aggregate statistics. A per-instance
// failure never escapes this call; it becomes an ERROR row.
//
// # Inputs
//
//   - ctx: Context for tracing. Must not be nil.
//   - req: The run request. Validated before grading starts.
//   - instances: The extracted instances to grade, in input order.
//
// # Outputs
//
//   - *Report: The finished report. Nil on whole-run failure.
//   - error: ErrInvalidInput or ErrNoElements (wrapped with the category).
func (r *Runner) Run(ctx context.Context, req Request, instances []Instance) (*Report, error) {
	if ctx == nil {
		return nil, ErrInvalidInput
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := r.log.With("run_id", runID)
	start := time.Now()

	state := StateCollecting
	log.Info("batch run started",
		"state", state.String(),
		"category", req.Category,
		"grade_type", req.GradeType,
		"instances", len(instances),
	)

	filtered := filterByCategory(instances, req.Category)
	if len(filtered) == 0 {
		recordRunMetrics(time.Since(start), 0, false)
		return nil, fmt.Errorf("%w for category: %s", ErrNoElements, displayCategory(req.Category))
	}

	state = StateGrading
	log.Debug("grading instances", "state", state.String(), "count", len(filtered))

	results := r.gradeAll(ctx, filtered)

	state = StateAggregating
	log.Debug("aggregating results", "state", state.String())

	report := &Report{
		RunID:        runID,
		GeneratedAt:  time.Now(),
		DocumentName: r.docName,
		Request:      req,
		Results:      results,
		Stats:        computeStats(results, r.topN),
	}

	state = StateDone
	log.Info("batch run finished",
		"state", state.String(),
		"graded", report.Stats.TotalElements,
		"errors", report.Stats.GradeDistribution[string(LetterError)],
		"no_geometry", report.Stats.NoGeometryCount,
		"avg_score", report.Stats.AvgScore,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	recordRunMetrics(time.Since(start), len(results), true)
	recordRowMetrics(results)

	return report, nil
}

// gradeAll grades the filtered instances, sequentially or with a bounded
// worker pool. Results land at their input index, so report order never
// depends on scheduling.
func (r *Runner) gradeAll(ctx context.Context, instances []Instance) []Result {
	results := make([]Result, len(instances))

	if r.workers <= 1 {
		for i := range instances {
			results[i] = r.gradeOne(ctx, instances[i])
		}
		return results
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range instances {
		i := i
		g.Go(func() error {
			results[i] = r.gradeOne(ctx, instances[i])
			return nil
		})
	}
	// Workers never return errors; failures are ERROR rows.
	_ = g.Wait()

	return results
}

// gradeOne grades a single instance. Never fails: aggregation errors and
// panics are converted to ERROR rows.
func (r *Runner) gradeOne(ctx context.Context, inst Instance) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = errorResult(inst, fmt.Sprintf("panic while grading: %v", p))
		}
	}()

	res = Result{
		ElementID:  inst.ElementID,
		UniqueID:   inst.UniqueID,
		Category:   inst.Category,
		FamilyName: inst.FamilyName,
		TypeName:   inst.TypeName,
	}

	if len(inst.Geometry) == 0 {
		res.Overall = grading.OverallGrade{
			Letter:   LetterNoGeometry,
			Score:    0,
			Analysis: "No geometry found",
		}
		return res
	}
	res.HasGeometry = true

	fp, err := r.agg.Aggregate(inst.Geometry)
	if err != nil {
		return errorResult(inst, err.Error())
	}

	set, overall := grading.GradeAll(ctx, fp)

	res.Fingerprint = fp
	res.Criteria = set
	res.Overall = overall
	res.FamilyHash = geometry.FamilyHash(inst.FamilyName, inst.TypeName, fp)
	return res
}

// errorResult builds the terminal ERROR row for a failed instance. The
// failure message is the sole issue, per the batch failure contract.
func errorResult(inst Instance, msg string) Result {
	return Result{
		ElementID:      inst.ElementID,
		UniqueID:       inst.UniqueID,
		Category:       inst.Category,
		FamilyName:     inst.FamilyName,
		TypeName:       inst.TypeName,
		HasGeometry:    true,
		FailureMessage: msg,
		Overall: grading.OverallGrade{
			Letter:   LetterError,
			Score:    0,
			Analysis: msg,
		},
	}
}

// filterByCategory keeps instances matching the requested category,
// case-insensitively. "All" or empty passes everything.
func filterByCategory(instances []Instance, category string) []Instance {
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return instances
	}

	var filtered []Instance
	for _, inst := range instances {
		if strings.EqualFold(inst.Category, category) {
			filtered = append(filtered, inst)
		}
	}
	return filtered
}

// displayCategory renders the category for error messages.
func displayCategory(category string) string {
	if category == "" {
		return CategoryAll
	}
	return category
}
