// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package batch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/FamGrade/services/grader/geometry"
	"github.com/AleutianAI/FamGrade/services/grader/grading"
)

// nativeSolid returns a simple native-classifying solid.
func nativeSolid(faceCount int) geometry.Descriptor {
	faces := make([]geometry.Face, faceCount)
	for i := range faces {
		faces[i] = geometry.Face{Kind: geometry.SurfacePlanar}
	}
	return &geometry.Solid{Faces: faces, EdgeCount: faceCount * 2, Volume: 1}
}

// deepTree returns a descriptor tree nested beyond the given depth.
func deepTree(depth int) []geometry.Descriptor {
	nodes := []geometry.Descriptor{nativeSolid(4)}
	for i := 0; i < depth; i++ {
		nodes = []geometry.Descriptor{&geometry.InstanceRef{Children: nodes}}
	}
	return nodes
}

func testInstance(id, category string, geo []geometry.Descriptor) Instance {
	return Instance{
		ElementID:  id,
		UniqueID:   "uid-" + id,
		Category:   category,
		FamilyName: "Family-" + id,
		TypeName:   "Type-" + id,
		Geometry:   geo,
	}
}

func detailedRequest(category string) Request {
	return Request{Category: category, GradeType: GradeTypeDetailed}
}

func TestRunner_Run_NilContext(t *testing.T) {
	r := NewRunner(nil)
	_, err := r.Run(nil, detailedRequest(""), nil) //nolint:staticcheck
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRunner_Run_InvalidGradeType(t *testing.T) {
	r := NewRunner(nil)
	_, err := r.Run(context.Background(), Request{GradeType: "verbose"}, []Instance{
		testInstance("1", "Doors", []geometry.Descriptor{nativeSolid(6)}),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRunner_Run_EmptyCollection(t *testing.T) {
	r := NewRunner(nil)
	_, err := r.Run(context.Background(), detailedRequest(""), nil)
	require.ErrorIs(t, err, ErrNoElements)
	assert.Contains(t, err.Error(), "for category: All")
}

func TestRunner_Run_CategoryFilterNoMatch(t *testing.T) {
	r := NewRunner(nil)
	_, err := r.Run(context.Background(), detailedRequest("Windows"), []Instance{
		testInstance("1", "Doors", []geometry.Descriptor{nativeSolid(6)}),
	})
	require.ErrorIs(t, err, ErrNoElements)
	assert.Contains(t, err.Error(), "for category: Windows")
}

func TestRunner_Run_CategoryFilterCaseInsensitive(t *testing.T) {
	r := NewRunner(nil)
	rep, err := r.Run(context.Background(), detailedRequest("doors"), []Instance{
		testInstance("1", "Doors", []geometry.Descriptor{nativeSolid(6)}),
		testInstance("2", "Windows", []geometry.Descriptor{nativeSolid(6)}),
	})
	require.NoError(t, err)
	require.Len(t, rep.Results, 1)
	assert.Equal(t, "Doors", rep.Results[0].Category)
}

func TestRunner_Run_AllCategoryGradesEverything(t *testing.T) {
	instances := []Instance{
		testInstance("1", "Doors", []geometry.Descriptor{nativeSolid(6)}),
		testInstance("2", "Windows", []geometry.Descriptor{nativeSolid(6)}),
	}

	for _, category := range []string{"", "All", "all"} {
		rep, err := NewRunner(nil).Run(context.Background(), detailedRequest(category), instances)
		require.NoError(t, err, "category %q", category)
		assert.Len(t, rep.Results, 2, "category %q", category)
	}
}

func TestRunner_Run_GradesPristineFamily(t *testing.T) {
	r := NewRunner(nil)
	rep, err := r.Run(context.Background(), detailedRequest(""), []Instance{
		testInstance("1", "Doors", []geometry.Descriptor{nativeSolid(500)}),
	})
	require.NoError(t, err)
	require.Len(t, rep.Results, 1)

	res := rep.Results[0]
	assert.True(t, res.Graded())
	assert.Equal(t, grading.LetterA, res.Overall.Letter)
	assert.Equal(t, 99, res.Overall.Score)
	assert.Len(t, res.FamilyHash, 16)
	require.NotNil(t, res.Fingerprint)
	assert.Equal(t, 500, res.Fingerprint.TotalFaces)
}

func TestRunner_Run_ErrorRowNeverAbortsBatch(t *testing.T) {
	r := NewRunner(&RunnerOptions{MaxDepth: 4})

	instances := []Instance{
		testInstance("1", "Doors", []geometry.Descriptor{nativeSolid(6)}),
		testInstance("2", "Doors", deepTree(10)), // exceeds MaxDepth
		testInstance("3", "Doors", []geometry.Descriptor{nativeSolid(6)}),
	}

	rep, err := r.Run(context.Background(), detailedRequest(""), instances)
	require.NoError(t, err, "a bad instance must never abort the batch")
	require.Len(t, rep.Results, 3)

	assert.True(t, rep.Results[0].Graded())
	assert.True(t, rep.Results[2].Graded())

	bad := rep.Results[1]
	assert.True(t, bad.IsError())
	assert.Equal(t, LetterError, bad.Overall.Letter)
	assert.Equal(t, 0, bad.Overall.Score)
	assert.Contains(t, bad.FailureMessage, "max recursion depth exceeded")
	assert.Nil(t, bad.Fingerprint)
	assert.Empty(t, bad.FamilyHash)

	assert.Equal(t, 1, rep.Stats.GradeDistribution[string(LetterError)])
}

func TestRunner_Run_NoGeometryRow(t *testing.T) {
	r := NewRunner(nil)
	rep, err := r.Run(context.Background(), detailedRequest(""), []Instance{
		testInstance("1", "Doors", nil),
		testInstance("2", "Doors", []geometry.Descriptor{nativeSolid(6)}),
	})
	require.NoError(t, err)
	require.Len(t, rep.Results, 2)

	empty := rep.Results[0]
	assert.False(t, empty.HasGeometry)
	assert.False(t, empty.Graded())
	assert.Equal(t, LetterNoGeometry, empty.Overall.Letter)
	assert.Empty(t, empty.FamilyHash)

	assert.Equal(t, 1, rep.Stats.NoGeometryCount)
}

func TestRunner_Run_PreservesInputOrderParallel(t *testing.T) {
	var instances []Instance
	for i := 0; i < 64; i++ {
		id := fmt.Sprintf("%d", i)
		instances = append(instances, testInstance(id, "Doors", []geometry.Descriptor{nativeSolid(6)}))
	}

	r := NewRunner(&RunnerOptions{Workers: 8})
	rep, err := r.Run(context.Background(), detailedRequest(""), instances)
	require.NoError(t, err)
	require.Len(t, rep.Results, 64)

	for i, res := range rep.Results {
		assert.Equal(t, fmt.Sprintf("%d", i), res.ElementID, "row %d out of order", i)
	}
}

func TestRunner_Run_ParallelMatchesSequential(t *testing.T) {
	instances := []Instance{
		testInstance("1", "Doors", []geometry.Descriptor{nativeSolid(500)}),
		testInstance("2", "Doors", []geometry.Descriptor{&geometry.Mesh{TriangleCount: 120000}}),
		testInstance("3", "Doors", nil),
	}

	seq, err := NewRunner(&RunnerOptions{Workers: 0}).Run(context.Background(), detailedRequest(""), instances)
	require.NoError(t, err)
	par, err := NewRunner(&RunnerOptions{Workers: 4}).Run(context.Background(), detailedRequest(""), instances)
	require.NoError(t, err)

	require.Len(t, par.Results, len(seq.Results))
	for i := range seq.Results {
		assert.Equal(t, seq.Results[i].Overall, par.Results[i].Overall, "row %d", i)
	}
	assert.Equal(t, seq.Stats.AvgScore, par.Stats.AvgScore)
}

func TestRunner_Run_ReportMetadata(t *testing.T) {
	r := NewRunner(&RunnerOptions{DocumentName: "Office_Tower.rvt"})
	rep, err := r.Run(context.Background(), detailedRequest(""), []Instance{
		testInstance("1", "Doors", []geometry.Descriptor{nativeSolid(6)}),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rep.RunID)
	assert.False(t, rep.GeneratedAt.IsZero())
	assert.Equal(t, "Office_Tower.rvt", rep.DocumentName)
	assert.Equal(t, GradeTypeDetailed, rep.Request.GradeType)
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		StateIdle:        "idle",
		StateCollecting:  "collecting",
		StateGrading:     "grading",
		StateAggregating: "aggregating",
		StateDone:        "done",
		State(99):        "unknown",
	}
	for state, want := range tests {
		assert.Equal(t, want, state.String())
	}
}

func TestRequest_Validate(t *testing.T) {
	valid := Request{GradeType: GradeTypeQuick}
	assert.NoError(t, valid.Validate())

	invalid := Request{GradeType: "full"}
	assert.ErrorIs(t, invalid.Validate(), ErrInvalidInput)

	missing := Request{}
	assert.ErrorIs(t, missing.Validate(), ErrInvalidInput)
}

func TestInstance_UnmarshalJSON(t *testing.T) {
	data := []byte(`{
		"elementId": "316220",
		"uniqueId": "f2ad8c1e-000316220",
		"category": "Doors",
		"familyName": "Single-Flush",
		"typeName": "36x84",
		"geometry": [
			{"kind": "solid", "faces": [{"surfaceKind": "planar"}], "edgeCount": 4, "volume": 1},
			{"kind": "instance", "children": [{"kind": "mesh", "triangleCount": 10, "vertexCount": 8}]}
		]
	}`)

	var in Instance
	require.NoError(t, in.UnmarshalJSON(data))

	assert.Equal(t, "316220", in.ElementID)
	assert.Equal(t, "Doors", in.Category)
	require.Len(t, in.Geometry, 2)
	assert.IsType(t, &geometry.Solid{}, in.Geometry[0])
	assert.IsType(t, &geometry.InstanceRef{}, in.Geometry[1])
}

func TestInstance_UnmarshalJSON_BadDescriptor(t *testing.T) {
	data := []byte(`{"elementId": "1", "geometry": [{"kind": "wireframe"}]}`)

	var in Instance
	err := in.UnmarshalJSON(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, geometry.ErrInvalidInput)
}
