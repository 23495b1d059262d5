// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package grading implements multi-criterion quality grading for FamGrade.
//
// # Description
//
// This package maps a geometry Fingerprint to four independent criterion
// grades (geometry type, face count, import source, nesting depth) and
// combines them into a weighted overall grade. The rubric thresholds are
// fixed tables, not configuration: they are the tested contract of the
// grading engine.
//
// # Thread Safety
//
// All graders are pure functions over immutable fingerprints and are safe
// for concurrent use.
package grading

// Letter is an ordinal A-F grade mapped from a 0-100 score.
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
	LetterF Letter = "F"
)

// Criterion names as they appear in grade output and metrics.
const (
	CriterionGeometryType = "geometry_type"
	CriterionFaceCount    = "face_count"
	CriterionImportSource = "import_source"
	CriterionNestingDepth = "nesting_depth"
)

// Recommendation strings are stable so batch aggregation can count recurring
// ones across instances. Dynamic values (counts, ratios) belong in Issues,
// never here.
const (
	// RecReplaceMeshes suggests replacing mesh imports with native solids.
	RecReplaceMeshes = "Replace imported mesh geometry with native solid modeling"

	// RecRecreateImports suggests remodeling complex solid imports natively.
	RecRecreateImports = "Recreate imported solids with native modeling tools"

	// RecReduceFaceCount suggests simplifying heavy geometry.
	RecReduceFaceCount = "Simplify the geometry to reduce the face count"

	// RecFlattenNesting suggests reducing nested family indirections.
	RecFlattenNesting = "Flatten nested families into the host family"

	// RecAddGeometry flags families with no gradable geometry.
	RecAddGeometry = "Add solid geometry or verify the family is a valid model family"
)

// CriterionGrade is one criterion's verdict for a single instance.
// Immutable value.
type CriterionGrade struct {
	// Criterion identifies the criterion (see Criterion* constants).
	Criterion string `json:"criterion"`

	// Letter is the ordinal grade.
	Letter Letter `json:"letter"`

	// Score is the numeric grade in [0, 100].
	Score int `json:"score"`

	// Assessment is a one-line human-readable verdict.
	Assessment string `json:"assessment"`

	// Guideline states the modeling guideline behind the criterion.
	Guideline string `json:"guideline"`

	// Issues lists facts found, in detection order. May contain dynamic
	// values such as counts.
	Issues []string `json:"issues,omitempty"`

	// Recommendations lists actionable suggestions, in detection order.
	// Always drawn from the stable Rec* strings.
	Recommendations []string `json:"recommendations,omitempty"`
}

// OverallGrade is the weighted combination of the four criterion grades.
// Immutable value.
type OverallGrade struct {
	// Letter is the ordinal grade.
	Letter Letter `json:"letter"`

	// Score is the weighted numeric grade in [0, 100], round-half-up.
	Score int `json:"score"`

	// Analysis is a one-line summary of the combination.
	Analysis string `json:"analysis"`

	// Recommendations is the deduplicated union of all criteria's
	// recommendations, preserving first-seen order in fixed criterion
	// order (geometry type, face count, import source, nesting).
	Recommendations []string `json:"recommendations,omitempty"`
}

// CriterionSet bundles the four criterion grades of one instance.
type CriterionSet struct {
	GeometryType CriterionGrade `json:"geometryType"`
	FaceCount    CriterionGrade `json:"faceCount"`
	ImportSource CriterionGrade `json:"importSource"`
	Nesting      CriterionGrade `json:"nesting"`
}
