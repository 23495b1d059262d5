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
	"fmt"
	"math"
	"time"

	"github.com/AleutianAI/FamGrade/services/grader/geometry"
)

// Criterion weights. They sum to 1.0; this is asserted by tests, not
// checked at runtime.
const (
	weightFaceCount    = 0.30
	weightGeometryType = 0.30
	weightImportSource = 0.25
	weightNesting      = 0.15
)

// Letter cutoffs for the overall score.
const (
	cutoffA = 90
	cutoffB = 80
	cutoffC = 70
	cutoffD = 60
)

// Combine applies the fixed weights to the four criterion scores.
//
// # Description
//
// The overall score is round(faceCount*0.30 + geometryType*0.30 +
// importSource*0.25 + nesting*0.15), round-half-up. Recommendations are the
// union of all criteria's recommendations, deduplicated while preserving
// first-seen order; the fixed criterion order (geometry type, face count,
// import source, nesting) is the tie-break and the display order.
//
// # Inputs
//
//   - set: The four criterion grades of one instance.
//
// # Outputs
//
//   - OverallGrade: Combined grade with score in [0, 100].
func Combine(set CriterionSet) OverallGrade {
	weighted := float64(set.FaceCount.Score)*weightFaceCount +
		float64(set.GeometryType.Score)*weightGeometryType +
		float64(set.ImportSource.Score)*weightImportSource +
		float64(set.Nesting.Score)*weightNesting

	score := roundHalfUp(weighted)

	return OverallGrade{
		Letter: letterForScore(score),
		Score:  score,
		Analysis: fmt.Sprintf("%s geometry type, %s face count, %s import source, %s nesting",
			set.GeometryType.Letter, set.FaceCount.Letter,
			set.ImportSource.Letter, set.Nesting.Letter),
		Recommendations: mergeRecommendations(set),
	}
}

// GradeAll runs the four criterion graders and combines them, recording
// telemetry for the operation.
//
// # Inputs
//
//   - ctx: Context for tracing. Must not be nil.
//   - fp: The instance fingerprint. Must not be nil.
//
// # Outputs
//
//   - CriterionSet: The four criterion grades.
//   - OverallGrade: The weighted combination.
func GradeAll(ctx context.Context, fp *geometry.Fingerprint) (CriterionSet, OverallGrade) {
	ctx, span := startGradeSpan(ctx)
	defer span.End()

	start := time.Now()

	set := CriterionSet{
		GeometryType: GradeGeometryType(fp),
		FaceCount:    GradeFaceCount(fp),
		ImportSource: GradeImportSource(fp),
		Nesting:      GradeNestingDepth(fp),
	}
	overall := Combine(set)

	setGradeSpanResult(span, overall)
	recordGradeMetrics(ctx, time.Since(start), overall)

	return set, overall
}

// letterForScore maps an overall score to its letter grade.
func letterForScore(score int) Letter {
	switch {
	case score >= cutoffA:
		return LetterA
	case score >= cutoffB:
		return LetterB
	case score >= cutoffC:
		return LetterC
	case score >= cutoffD:
		return LetterD
	default:
		return LetterF
	}
}

// roundHalfUp rounds to the nearest integer with halves rounding up.
// Scores are never negative, so math.Floor(x+0.5) suffices.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// mergeRecommendations deduplicates the criteria's recommendations in the
// fixed criterion order, preserving first-seen order.
func mergeRecommendations(set CriterionSet) []string {
	var merged []string
	seen := make(map[string]bool)

	for _, c := range []CriterionGrade{set.GeometryType, set.FaceCount, set.ImportSource, set.Nesting} {
		for _, rec := range c.Recommendations {
			if seen[rec] {
				continue
			}
			seen[rec] = true
			merged = append(merged, rec)
		}
	}

	return merged
}
