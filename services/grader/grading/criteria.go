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
	"fmt"

	"github.com/AleutianAI/FamGrade/services/grader/geometry"
)

// Guideline texts, one per criterion.
const (
	guidelineGeometryType = "Model families with native solid geometry; meshes indicate imported content"
	guidelineFaceCount    = "Keep face counts low; heavy geometry slows regeneration and views"
	guidelineImportSource = "Prefer native parametric modeling over SAT/ACIS or mesh imports"
	guidelineNesting      = "Limit nested family references; deep nesting complicates maintenance"
)

// band is one row of an ordered rubric table. The first band whose Above
// bound is strictly exceeded wins; the final band has Above -1 and catches
// everything else.
type band struct {
	above      int
	score      int
	letter     Letter
	assessment string
}

// pick returns the first band strictly exceeded by value.
func pick(bands []band, value int) band {
	for _, b := range bands {
		if value > b.above {
			return b
		}
	}
	// Unreachable when the table ends with a catch-all band.
	return bands[len(bands)-1]
}

// faceCountBands is the fixed face-count rubric, highest band first.
// Boundaries are strict: the higher band wins only above the exact value.
var faceCountBands = []band{
	{100000, 0, LetterF, "Extreme face count; family is unusable at scale"},
	{50000, 40, LetterD, "Very high face count"},
	{20000, 65, LetterC, "High face count"},
	{5000, 85, LetterB, "Moderate face count"},
	{100, 95, LetterA, "Reasonable face count"},
	{-1, 100, LetterA, "Lightweight geometry"},
}

// nestingBands is the fixed nesting rubric over the flat nested-instance
// count (not tree depth).
var nestingBands = []band{
	{10, 50, LetterD, "Excessive nested family references"},
	{3, 80, LetterB, "Several nested family references"},
	{0, 95, LetterA, "Minimal nesting"},
	{-1, 100, LetterA, "No nested families"},
}

// GradeGeometryType grades the solids-vs-meshes composition.
//
// # Description
//
// Fully solid geometry is optimal (A/100). Mixing meshes into solid
// families degrades to C/70, mesh-only families to D/60, and families with
// no gradable geometry at all fail the criterion (F/0).
func GradeGeometryType(fp *geometry.Fingerprint) CriterionGrade {
	g := CriterionGrade{
		Criterion: CriterionGeometryType,
		Guideline: guidelineGeometryType,
	}

	switch {
	case fp.SolidCount > 0 && fp.MeshCount == 0:
		g.Letter, g.Score = LetterA, 100
		g.Assessment = "Optimal: fully native/solid geometry"

	case fp.SolidCount > 0 && fp.MeshCount > 0:
		g.Letter, g.Score = LetterC, 70
		g.Assessment = "Mixed solid and mesh geometry"
		g.Issues = append(g.Issues,
			fmt.Sprintf("Family mixes %d solids with %d meshes", fp.SolidCount, fp.MeshCount))
		g.Recommendations = append(g.Recommendations, RecReplaceMeshes)

	case fp.MeshCount > 0:
		g.Letter, g.Score = LetterD, 60
		g.Assessment = "Mesh-only geometry"
		g.Issues = append(g.Issues,
			fmt.Sprintf("All geometry is mesh-based (%d meshes)", fp.MeshCount))
		g.Recommendations = append(g.Recommendations, RecReplaceMeshes)

	default:
		g.Letter, g.Score = LetterF, 0
		g.Assessment = "No gradable geometry"
		g.Issues = append(g.Issues, "No solids or meshes found")
		g.Recommendations = append(g.Recommendations, RecAddGeometry)
	}

	return g
}

// GradeFaceCount grades the total face count against the six-band rubric.
// The score is monotonically non-increasing as the count rises.
func GradeFaceCount(fp *geometry.Fingerprint) CriterionGrade {
	b := pick(faceCountBands, fp.TotalFaces)

	g := CriterionGrade{
		Criterion:  CriterionFaceCount,
		Letter:     b.letter,
		Score:      b.score,
		Assessment: b.assessment,
		Guideline:  guidelineFaceCount,
	}

	if fp.TotalFaces > 5000 {
		g.Issues = append(g.Issues,
			fmt.Sprintf("Family contains %d faces", fp.TotalFaces))
	}
	if fp.TotalFaces > 20000 {
		g.Recommendations = append(g.Recommendations, RecReduceFaceCount)
	}

	return g
}

// GradeImportSource grades the inferred origin mix of the geometry.
//
// # Description
//
// The rules are priority-ordered; mesh presence always dominates
// native-vs-import considerations because mesh is the worst outcome
// architecturally. A fingerprint with no geometry at all grades C/70
// (unknown origin).
func GradeImportSource(fp *geometry.Fingerprint) CriterionGrade {
	g := CriterionGrade{
		Criterion: CriterionImportSource,
		Guideline: guidelineImportSource,
	}

	native := fp.NativeSolidCount
	complexImport := fp.ImportedComplexSolidCount
	mesh := fp.ImportedMeshCount
	total := native + complexImport + mesh

	switch {
	case total == 0:
		g.Letter, g.Score = LetterC, 70
		g.Assessment = "Unknown origin: no solids or meshes to classify"

	case mesh == 0 && complexImport == 0:
		g.Letter, g.Score = LetterA, 100
		g.Assessment = "Fully native-modeled geometry"

	case mesh == 0 && native > 0:
		g.Letter, g.Score = LetterB, 80
		g.Assessment = "Native geometry mixed with complex imports"
		g.Issues = append(g.Issues,
			fmt.Sprintf("%d of %d solids look imported", complexImport, native+complexImport))
		g.Recommendations = append(g.Recommendations, RecRecreateImports)

	case mesh == 0:
		g.Letter, g.Score = LetterC, 70
		g.Assessment = "All solids look imported"
		g.Issues = append(g.Issues,
			fmt.Sprintf("All %d solids classify as complex imports", complexImport))
		g.Recommendations = append(g.Recommendations, RecRecreateImports)

	case native > 0:
		g.Letter, g.Score = LetterD, 60
		g.Assessment = "Mesh imports mixed with native geometry"
		g.Issues = append(g.Issues,
			fmt.Sprintf("%d meshes present alongside %d native solids", mesh, native))
		g.Recommendations = append(g.Recommendations, RecReplaceMeshes)

	default:
		g.Letter, g.Score = LetterF, 40
		g.Assessment = "Entirely imported mesh geometry"
		g.Issues = append(g.Issues,
			fmt.Sprintf("All geometry stems from mesh imports (%d meshes)", mesh))
		g.Recommendations = append(g.Recommendations, RecReplaceMeshes)
	}

	return g
}

// GradeNestingDepth grades the flat nested-instance count.
func GradeNestingDepth(fp *geometry.Fingerprint) CriterionGrade {
	b := pick(nestingBands, fp.NestedInstanceCount)

	g := CriterionGrade{
		Criterion:  CriterionNestingDepth,
		Letter:     b.letter,
		Score:      b.score,
		Assessment: b.assessment,
		Guideline:  guidelineNesting,
	}

	if fp.NestedInstanceCount > 3 {
		g.Issues = append(g.Issues,
			fmt.Sprintf("Family references %d nested instances", fp.NestedInstanceCount))
		g.Recommendations = append(g.Recommendations, RecFlattenNesting)
	}

	return g
}
