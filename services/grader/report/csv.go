// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package report renders batch reports for export.
//
// # Description
//
// This package turns a finished batch report into its two tabular row
// schemas (detailed and quick) and into the JSON-shaped summary object the
// surrounding layers consume. Export destinations are the caller's
// concern; writers accept io.Writer.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/AleutianAI/FamGrade/services/grader/batch"
)

// Fixed column orders. Quick is a strict subset of detailed, omitting the
// four individual criterion grades and the DetectedSources column.
var (
	detailedHeader = []string{
		"Category", "FamilyName", "TypeName", "ElementId", "UniqueId",
		"GeometryTypeGrade", "FaceCountGrade", "ImportSourceGrade", "NestingGrade",
		"OverallGrade", "OverallScore", "TotalFaces", "SolidCount", "MeshCount",
		"DetectedSources", "FamilyHash", "TopRecommendation",
	}

	quickHeader = []string{
		"Category", "FamilyName", "TypeName", "ElementId", "UniqueId",
		"OverallGrade", "OverallScore", "TotalFaces", "SolidCount", "MeshCount",
		"FamilyHash", "TopRecommendation",
	}
)

// DetailedHeader returns the 17-column detailed schema, order fixed.
func DetailedHeader() []string {
	return append([]string(nil), detailedHeader...)
}

// QuickHeader returns the quick schema, order fixed.
func QuickHeader() []string {
	return append([]string(nil), quickHeader...)
}

// Write renders the report as CSV using the schema selected by the run's
// grade type. encoding/csv applies standard quoting (fields containing
// comma, quote, or newline are quoted with doubled internal quotes).
//
// # Inputs
//
//   - w: Destination writer.
//   - rep: The finished batch report. Must not be nil.
//
// # Outputs
//
//   - error: Non-nil on write failure.
func Write(w io.Writer, rep *batch.Report) error {
	if rep == nil {
		return fmt.Errorf("nil report")
	}

	quick := rep.Request.GradeType == batch.GradeTypeQuick

	cw := csv.NewWriter(w)

	header := detailedHeader
	if quick {
		header = quickHeader
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range rep.Results {
		row := detailedRow(&rep.Results[i])
		if quick {
			row = quickRow(&rep.Results[i])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile renders the report as CSV into a file.
func WriteFile(path string, rep *batch.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := Write(f, rep); err != nil {
		return err
	}
	return f.Close()
}

// detailedRow renders one result in the detailed schema.
func detailedRow(res *batch.Result) []string {
	totalFaces, solids, meshes, sources := fingerprintColumns(res)

	return []string{
		res.Category,
		res.FamilyName,
		res.TypeName,
		res.ElementID,
		res.UniqueID,
		string(res.Criteria.GeometryType.Letter),
		string(res.Criteria.FaceCount.Letter),
		string(res.Criteria.ImportSource.Letter),
		string(res.Criteria.Nesting.Letter),
		string(res.Overall.Letter),
		fmt.Sprintf("%d", res.Overall.Score),
		totalFaces,
		solids,
		meshes,
		sources,
		res.FamilyHash,
		topRecommendation(res),
	}
}

// quickRow renders one result in the quick schema.
func quickRow(res *batch.Result) []string {
	totalFaces, solids, meshes, _ := fingerprintColumns(res)

	return []string{
		res.Category,
		res.FamilyName,
		res.TypeName,
		res.ElementID,
		res.UniqueID,
		string(res.Overall.Letter),
		fmt.Sprintf("%d", res.Overall.Score),
		totalFaces,
		solids,
		meshes,
		res.FamilyHash,
		topRecommendation(res),
	}
}

// fingerprintColumns renders the fingerprint summary fields. ERROR and
// no-geometry rows have no fingerprint and render zeros.
func fingerprintColumns(res *batch.Result) (totalFaces, solids, meshes, sources string) {
	if fp := res.Fingerprint; fp != nil {
		return fmt.Sprintf("%d", fp.TotalFaces),
			fmt.Sprintf("%d", fp.SolidCount),
			fmt.Sprintf("%d", fp.MeshCount),
			fp.SourcesLabel()
	}
	return "0", "0", "0", ""
}

// topRecommendation returns the first recommendation only, per the row
// schema.
func topRecommendation(res *batch.Result) string {
	if len(res.Overall.Recommendations) == 0 {
		return ""
	}
	return res.Overall.Recommendations[0]
}
