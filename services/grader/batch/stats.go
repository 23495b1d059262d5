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
	"sort"

	"github.com/AleutianAI/FamGrade/services/grader/geometry"
	"github.com/AleutianAI/FamGrade/services/grader/grading"
)

// Stats holds the aggregate statistics of one batch run.
//
// Averaging policy: no-geometry rows are excluded from every average and
// from the letter distribution; unknown-origin rows (geometry present but
// nothing classifiable) carry a real grade and are included everywhere.
type Stats struct {
	// TotalElements is the number of rows in the report, all buckets.
	TotalElements int `json:"totalElements"`

	// GradeDistribution counts rows per letter, including ERROR.
	// No-geometry rows are tracked in NoGeometryCount instead.
	GradeDistribution map[string]int `json:"gradeDistribution"`

	// NoGeometryCount is the number of rows without extracted geometry.
	NoGeometryCount int `json:"noGeometryCount"`

	// AvgScore is the mean overall score over graded (non-ERROR,
	// geometry-bearing) rows. 0 when no row qualifies.
	AvgScore float64 `json:"avgScore"`

	// Categories holds per-category subtotals in first-seen order.
	Categories []CategoryStats `json:"categories"`

	// TopRecommendations is the most frequent recommendation strings,
	// ties broken by first-seen order.
	TopRecommendations []RecommendationCount `json:"topRecommendations"`

	// SourceBreakdown counts instances per detected origin. A mixed
	// instance counts in more than one bucket.
	SourceBreakdown SourceBreakdown `json:"sourceBreakdown"`
}

// CategoryStats is the subtotal for one category.
type CategoryStats struct {
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	AvgScore float64 `json:"avgScore"`
}

// RecommendationCount is one recurring recommendation with its frequency.
type RecommendationCount struct {
	Recommendation string `json:"recommendation"`
	Count          int    `json:"count"`
}

// SourceBreakdown counts instances per detected geometry origin.
type SourceBreakdown struct {
	Native        int `json:"native"`
	ComplexImport int `json:"complexImport"`
	MeshImport    int `json:"meshImport"`
}

// computeStats reduces the result rows to aggregate statistics.
func computeStats(results []Result, topN int) Stats {
	stats := Stats{
		TotalElements: len(results),
		GradeDistribution: map[string]int{
			string(grading.LetterA): 0,
			string(grading.LetterB): 0,
			string(grading.LetterC): 0,
			string(grading.LetterD): 0,
			string(grading.LetterF): 0,
			string(LetterError):     0,
		},
	}

	var scoreSum, scored int

	type category struct {
		stats  CategoryStats
		sum    int
		scored int
	}
	categories := make(map[string]*category)
	var categoryOrder []string

	recCounts := make(map[string]int)
	recFirstSeen := make(map[string]int)

	for _, res := range results {
		if !res.HasGeometry {
			stats.NoGeometryCount++
			continue
		}

		stats.GradeDistribution[string(res.Overall.Letter)]++

		cat, ok := categories[res.Category]
		if !ok {
			cat = &category{stats: CategoryStats{Name: res.Category}}
			categories[res.Category] = cat
			categoryOrder = append(categoryOrder, res.Category)
		}
		cat.stats.Count++

		if !res.IsError() {
			scoreSum += res.Overall.Score
			scored++
			cat.sum += res.Overall.Score
			cat.scored++
		}

		for _, rec := range res.Overall.Recommendations {
			if _, seen := recFirstSeen[rec]; !seen {
				recFirstSeen[rec] = len(recFirstSeen)
			}
			recCounts[rec]++
		}

		if fp := res.Fingerprint; fp != nil {
			if fp.HasSource(geometry.SourceNativeModeled) {
				stats.SourceBreakdown.Native++
			}
			if fp.HasSource(geometry.SourceComplexImport) {
				stats.SourceBreakdown.ComplexImport++
			}
			if fp.HasSource(geometry.SourceMeshImport) {
				stats.SourceBreakdown.MeshImport++
			}
		}
	}

	if scored > 0 {
		stats.AvgScore = float64(scoreSum) / float64(scored)
	}

	for _, name := range categoryOrder {
		cat := categories[name]
		if cat.scored > 0 {
			cat.stats.AvgScore = float64(cat.sum) / float64(cat.scored)
		}
		stats.Categories = append(stats.Categories, cat.stats)
	}

	stats.TopRecommendations = topRecommendations(recCounts, recFirstSeen, topN)

	return stats
}

// topRecommendations ranks recommendations by frequency, ties broken by
// first-seen order among tied frequencies.
func topRecommendations(counts, firstSeen map[string]int, topN int) []RecommendationCount {
	ranked := make([]RecommendationCount, 0, len(counts))
	for rec, count := range counts {
		ranked = append(ranked, RecommendationCount{Recommendation: rec, Count: count})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Recommendation] < firstSeen[ranked[j].Recommendation]
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
