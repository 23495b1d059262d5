// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package batch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/FamGrade/services/grader/geometry"
	"github.com/AleutianAI/FamGrade/services/grader/grading"
)

func gradedResult(category string, letter grading.Letter, score int, recs ...string) Result {
	return Result{
		Category:    category,
		HasGeometry: true,
		Overall: grading.OverallGrade{
			Letter:          letter,
			Score:           score,
			Recommendations: recs,
		},
	}
}

func errorRow(category string) Result {
	return errorResult(Instance{Category: category}, "boom")
}

func noGeometryRow(category string) Result {
	return Result{
		Category: category,
		Overall:  grading.OverallGrade{Letter: LetterNoGeometry},
	}
}

func TestComputeStats_Empty(t *testing.T) {
	stats := computeStats(nil, 5)

	assert.Equal(t, 0, stats.TotalElements)
	assert.Equal(t, 0.0, stats.AvgScore)
	assert.Empty(t, stats.Categories)
	assert.Empty(t, stats.TopRecommendations)

	// The distribution is seeded so report consumers always see every bucket.
	for _, letter := range []string{"A", "B", "C", "D", "F", "ERROR"} {
		count, ok := stats.GradeDistribution[letter]
		assert.True(t, ok, "missing bucket %s", letter)
		assert.Equal(t, 0, count)
	}
}

func TestComputeStats_Distribution(t *testing.T) {
	results := []Result{
		gradedResult("Doors", grading.LetterA, 99),
		gradedResult("Doors", grading.LetterA, 95),
		gradedResult("Windows", grading.LetterC, 75),
		errorRow("Windows"),
		noGeometryRow("Doors"),
	}

	stats := computeStats(results, 5)

	assert.Equal(t, 5, stats.TotalElements)
	assert.Equal(t, 2, stats.GradeDistribution["A"])
	assert.Equal(t, 1, stats.GradeDistribution["C"])
	assert.Equal(t, 1, stats.GradeDistribution["ERROR"])
	assert.Equal(t, 1, stats.NoGeometryCount)
}

func TestComputeStats_AvgExcludesErrorAndNoGeometry(t *testing.T) {
	results := []Result{
		gradedResult("Doors", grading.LetterA, 90),
		gradedResult("Doors", grading.LetterB, 80),
		errorRow("Doors"),
		noGeometryRow("Doors"),
	}

	stats := computeStats(results, 5)

	assert.InDelta(t, 85.0, stats.AvgScore, 1e-9)
}

func TestComputeStats_LargeBatchWithErrors(t *testing.T) {
	var results []Result
	for i := 0; i < 132; i++ {
		results = append(results, gradedResult("Doors", grading.LetterB, 80))
	}
	for i := 0; i < 10; i++ {
		results = append(results, errorRow("Doors"))
	}

	stats := computeStats(results, 5)

	assert.Equal(t, 142, stats.TotalElements)
	assert.Equal(t, 10, stats.GradeDistribution["ERROR"])
	assert.Equal(t, 132, stats.GradeDistribution["B"])
	assert.InDelta(t, 80.0, stats.AvgScore, 1e-9)
}

func TestComputeStats_AllErrors(t *testing.T) {
	stats := computeStats([]Result{errorRow("Doors"), errorRow("Doors")}, 5)

	assert.Equal(t, 0.0, stats.AvgScore)
	assert.Equal(t, 2, stats.GradeDistribution["ERROR"])
	require.Len(t, stats.Categories, 1)
	assert.Equal(t, 2, stats.Categories[0].Count)
	assert.Equal(t, 0.0, stats.Categories[0].AvgScore)
}

func TestComputeStats_CategoriesFirstSeenOrder(t *testing.T) {
	results := []Result{
		gradedResult("Windows", grading.LetterA, 100),
		gradedResult("Doors", grading.LetterB, 80),
		gradedResult("Windows", grading.LetterB, 80),
		gradedResult("Furniture", grading.LetterC, 70),
	}

	stats := computeStats(results, 5)

	require.Len(t, stats.Categories, 3)
	assert.Equal(t, "Windows", stats.Categories[0].Name)
	assert.Equal(t, "Doors", stats.Categories[1].Name)
	assert.Equal(t, "Furniture", stats.Categories[2].Name)
	assert.Equal(t, 2, stats.Categories[0].Count)
	assert.InDelta(t, 90.0, stats.Categories[0].AvgScore, 1e-9)
}

func TestComputeStats_TopRecommendations(t *testing.T) {
	results := []Result{
		gradedResult("Doors", grading.LetterD, 60, grading.RecReplaceMeshes),
		gradedResult("Doors", grading.LetterD, 60, grading.RecReplaceMeshes, grading.RecReduceFaceCount),
		gradedResult("Doors", grading.LetterD, 60, grading.RecReplaceMeshes),
		gradedResult("Doors", grading.LetterD, 60, grading.RecFlattenNesting),
	}

	stats := computeStats(results, 5)

	require.Len(t, stats.TopRecommendations, 3)
	assert.Equal(t, grading.RecReplaceMeshes, stats.TopRecommendations[0].Recommendation)
	assert.Equal(t, 3, stats.TopRecommendations[0].Count)
	// RecReduceFaceCount and RecFlattenNesting are tied at 1; first seen wins.
	assert.Equal(t, grading.RecReduceFaceCount, stats.TopRecommendations[1].Recommendation)
	assert.Equal(t, grading.RecFlattenNesting, stats.TopRecommendations[2].Recommendation)
}

func TestComputeStats_TopRecommendationsTruncated(t *testing.T) {
	var results []Result
	for i := 0; i < 8; i++ {
		rec := fmt.Sprintf("recommendation %d", i)
		// Descending counts so rank order is deterministic.
		for j := 0; j < 8-i; j++ {
			results = append(results, gradedResult("Doors", grading.LetterC, 70, rec))
		}
	}

	stats := computeStats(results, 5)

	require.Len(t, stats.TopRecommendations, 5)
	assert.Equal(t, "recommendation 0", stats.TopRecommendations[0].Recommendation)
	assert.Equal(t, 8, stats.TopRecommendations[0].Count)
	assert.Equal(t, "recommendation 4", stats.TopRecommendations[4].Recommendation)
}

func TestComputeStats_SourceBreakdown(t *testing.T) {
	mixed := gradedResult("Doors", grading.LetterC, 70)
	mixed.Fingerprint = fingerprintWithSources(geometry.SourceNativeModeled, geometry.SourceMeshImport)

	native := gradedResult("Doors", grading.LetterA, 100)
	native.Fingerprint = fingerprintWithSources(geometry.SourceNativeModeled)

	complexOnly := gradedResult("Doors", grading.LetterB, 80)
	complexOnly.Fingerprint = fingerprintWithSources(geometry.SourceComplexImport)

	stats := computeStats([]Result{mixed, native, complexOnly}, 5)

	assert.Equal(t, 2, stats.SourceBreakdown.Native)
	assert.Equal(t, 1, stats.SourceBreakdown.ComplexImport)
	assert.Equal(t, 1, stats.SourceBreakdown.MeshImport)
}

// fingerprintWithSources builds a fingerprint whose detected sources are
// exactly the given origins.
func fingerprintWithSources(sources ...geometry.Source) *geometry.Fingerprint {
	var nodes []geometry.Descriptor
	for _, src := range sources {
		switch src {
		case geometry.SourceNativeModeled:
			nodes = append(nodes, nativeSolid(6))
		case geometry.SourceComplexImport:
			nodes = append(nodes, complexSolid(10))
		case geometry.SourceMeshImport:
			nodes = append(nodes, &geometry.Mesh{TriangleCount: 12, VertexCount: 8})
		}
	}

	fp, err := geometry.NewAggregator(nil).Aggregate(nodes)
	if err != nil {
		panic(err)
	}
	return fp
}

// complexSolid returns a solid whose face mix classifies as an import.
func complexSolid(faceCount int) geometry.Descriptor {
	faces := make([]geometry.Face, faceCount)
	for i := range faces {
		faces[i] = geometry.Face{Kind: geometry.SurfaceRuledOrFreeform}
	}
	return &geometry.Solid{Faces: faces, EdgeCount: faceCount * 2, Volume: 1}
}
