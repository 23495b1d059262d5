// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package report

import (
	"time"

	"github.com/AleutianAI/FamGrade/services/grader/batch"
)

// Summary is the transport-agnostic result object returned to the caller.
// It is the only thing the surrounding HTTP/chat layers need to understand.
type Summary struct {
	// Success is false only for whole-run failures.
	Success bool `json:"success"`

	// Error carries the whole-run failure reason when Success is false.
	Error string `json:"error,omitempty"`

	// RunID correlates the summary with run logs.
	RunID string `json:"runId,omitempty"`

	// TotalElements is the number of report rows.
	TotalElements int `json:"totalElements"`

	// AvgScore is the mean overall score over graded rows.
	AvgScore float64 `json:"avgScore"`

	// GradeDistribution counts rows per letter: A, B, C, D, F, ERROR.
	GradeDistribution map[string]int `json:"gradeDistribution,omitempty"`

	// NoGeometry counts rows the extraction found no geometry for.
	NoGeometry int `json:"noGeometry"`

	// Categories holds per-category subtotals.
	Categories []batch.CategoryStats `json:"categories,omitempty"`

	// TopIssues is the most frequent recommendations across the batch.
	TopIssues []batch.RecommendationCount `json:"topIssues,omitempty"`

	// SourceBreakdown counts instances per detected geometry origin.
	SourceBreakdown batch.SourceBreakdown `json:"sourceBreakdown"`

	// ReportLocation is where the tabular report was written.
	ReportLocation string `json:"reportLocation,omitempty"`

	// DocumentName names the host document the instances came from.
	DocumentName string `json:"documentName,omitempty"`

	// Timestamp is when the summary was produced (RFC 3339).
	Timestamp string `json:"timestamp"`
}

// BuildSummary builds the caller-facing summary for a finished run.
//
// # Inputs
//
//   - rep: The finished batch report. Must not be nil.
//   - location: Where the tabular report was written, or empty.
//
// # Outputs
//
//   - Summary: The summary object, Success true.
func BuildSummary(rep *batch.Report, location string) Summary {
	return Summary{
		Success:           true,
		RunID:             rep.RunID,
		TotalElements:     rep.Stats.TotalElements,
		AvgScore:          rep.Stats.AvgScore,
		GradeDistribution: rep.Stats.GradeDistribution,
		NoGeometry:        rep.Stats.NoGeometryCount,
		Categories:        rep.Stats.Categories,
		TopIssues:         rep.Stats.TopRecommendations,
		SourceBreakdown:   rep.Stats.SourceBreakdown,
		ReportLocation:    location,
		DocumentName:      rep.DocumentName,
		Timestamp:         rep.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

// FailureSummary builds the summary for a whole-run failure. The reason is
// user-visible; per-instance failures never take this path.
func FailureSummary(err error) Summary {
	return Summary{
		Success:   false,
		Error:     err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
