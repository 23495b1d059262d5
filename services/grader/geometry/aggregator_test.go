// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package geometry

import (
	"errors"
	"testing"
)

func TestNewAggregator_NilOptionsUsesDefaults(t *testing.T) {
	a := NewAggregator(nil)
	if a.maxDepth != DefaultMaxDepth {
		t.Errorf("maxDepth = %d, want %d", a.maxDepth, DefaultMaxDepth)
	}
}

func TestNewAggregator_NonPositiveDepthUsesDefault(t *testing.T) {
	a := NewAggregator(&AggregatorOptions{MaxDepth: 0})
	if a.maxDepth != DefaultMaxDepth {
		t.Errorf("maxDepth = %d, want %d", a.maxDepth, DefaultMaxDepth)
	}
}

func TestAggregate_EmptyTree(t *testing.T) {
	a := NewAggregator(nil)

	fp, err := a.Aggregate(nil)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if fp.SolidCount != 0 || fp.MeshCount != 0 || fp.TotalFaces != 0 {
		t.Errorf("empty tree should yield empty fingerprint: %+v", fp)
	}
	if len(fp.Sources()) != 0 {
		t.Errorf("empty tree should detect no sources: %v", fp.Sources())
	}
}

func TestAggregate_SingleNativeSolid(t *testing.T) {
	a := NewAggregator(nil)

	fp, err := a.Aggregate([]Descriptor{
		&Solid{Faces: faces(8, 4, 0, 0, 0), EdgeCount: 24, Volume: 1.5},
	})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if fp.SolidCount != 1 || fp.NativeSolidCount != 1 || fp.ImportedComplexSolidCount != 0 {
		t.Errorf("solid counts wrong: %+v", fp)
	}
	if fp.TotalFaces != 12 || fp.TotalEdges != 24 {
		t.Errorf("TotalFaces = %d TotalEdges = %d, want 12 and 24", fp.TotalFaces, fp.TotalEdges)
	}
	if !fp.HasSource(SourceNativeModeled) || fp.HasSource(SourceMeshImport) {
		t.Errorf("sources wrong: %v", fp.Sources())
	}
}

func TestAggregate_DegenerateSolidsSkipped(t *testing.T) {
	a := NewAggregator(nil)

	fp, err := a.Aggregate([]Descriptor{
		&Solid{Faces: nil, EdgeCount: 4, Volume: 2},          // no faces
		&Solid{Faces: faces(6, 0, 0, 0, 0), Volume: 0},       // no volume
		&Solid{Faces: faces(6, 0, 0, 0, 0), Volume: 1},       // real
	})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if fp.SolidCount != 1 {
		t.Errorf("SolidCount = %d, want 1 (degenerates skipped)", fp.SolidCount)
	}
	if fp.TotalFaces != 6 {
		t.Errorf("TotalFaces = %d, want 6", fp.TotalFaces)
	}
}

func TestAggregate_MeshTrianglesCountAsFaces(t *testing.T) {
	a := NewAggregator(nil)

	fp, err := a.Aggregate([]Descriptor{
		&Mesh{TriangleCount: 1200, VertexCount: 640},
	})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if fp.MeshCount != 1 || fp.ImportedMeshCount != 1 {
		t.Errorf("mesh counts wrong: %+v", fp)
	}
	if fp.TotalFaces != 1200 {
		t.Errorf("TotalFaces = %d, want 1200", fp.TotalFaces)
	}
	if fp.TotalEdges != 0 {
		t.Errorf("TotalEdges = %d, want 0 (meshes have no edges)", fp.TotalEdges)
	}
	if !fp.HasSource(SourceMeshImport) {
		t.Error("MeshImport source not detected")
	}
}

func TestAggregate_NestedInstancesMerge(t *testing.T) {
	a := NewAggregator(nil)

	fp, err := a.Aggregate([]Descriptor{
		&Solid{Faces: faces(6, 0, 0, 0, 0), EdgeCount: 12, Volume: 1},
		&InstanceRef{Children: []Descriptor{
			&Mesh{TriangleCount: 100},
			&InstanceRef{Children: []Descriptor{
				&Solid{Faces: faces(4, 0, 0, 0, 0), EdgeCount: 8, Volume: 0.5},
			}},
		}},
	})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if fp.NestedInstanceCount != 2 {
		t.Errorf("NestedInstanceCount = %d, want 2", fp.NestedInstanceCount)
	}
	if fp.SolidCount != 2 || fp.MeshCount != 1 {
		t.Errorf("counts wrong: %+v", fp)
	}
	if fp.TotalFaces != 110 {
		t.Errorf("TotalFaces = %d, want 110", fp.TotalFaces)
	}
	if fp.TotalEdges != 20 {
		t.Errorf("TotalEdges = %d, want 20", fp.TotalEdges)
	}
	if !fp.HasSource(SourceNativeModeled) || !fp.HasSource(SourceMeshImport) {
		t.Errorf("sources wrong: %v", fp.Sources())
	}
}

func TestAggregate_DepthGuard(t *testing.T) {
	a := NewAggregator(&AggregatorOptions{MaxDepth: 3})

	// Depth 4 chain: exceeds the guard.
	tree := []Descriptor{&InstanceRef{Children: []Descriptor{
		&InstanceRef{Children: []Descriptor{
			&InstanceRef{Children: []Descriptor{
				&InstanceRef{Children: []Descriptor{
					&Solid{Faces: faces(1, 0, 0, 0, 0), Volume: 1},
				}},
			}},
		}},
	}}}

	_, err := a.Aggregate(tree)
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("error = %v, want ErrMaxDepthExceeded", err)
	}
}

func TestAggregate_DepthAtLimitSucceeds(t *testing.T) {
	a := NewAggregator(&AggregatorOptions{MaxDepth: 2})

	tree := []Descriptor{&InstanceRef{Children: []Descriptor{
		&InstanceRef{Children: []Descriptor{
			&Solid{Faces: faces(1, 0, 0, 0, 0), Volume: 1},
		}},
	}}}

	fp, err := a.Aggregate(tree)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if fp.SolidCount != 1 {
		t.Errorf("SolidCount = %d, want 1", fp.SolidCount)
	}
}

func TestAggregate_NilNode(t *testing.T) {
	a := NewAggregator(nil)

	_, err := a.Aggregate([]Descriptor{nil})
	if !errors.Is(err, ErrNilDescriptor) {
		t.Fatalf("error = %v, want ErrNilDescriptor", err)
	}
}

func TestSourcesLabel_FixedOrder(t *testing.T) {
	fp := &Fingerprint{detectedSources: map[Source]bool{
		SourceMeshImport:    true,
		SourceNativeModeled: true,
	}}

	if got := fp.SourcesLabel(); got != "NativeModeled;MeshImport" {
		t.Errorf("SourcesLabel() = %q, want %q", got, "NativeModeled;MeshImport")
	}
}

func TestSourcesLabel_Empty(t *testing.T) {
	fp := &Fingerprint{detectedSources: map[Source]bool{}}
	if got := fp.SourcesLabel(); got != "" {
		t.Errorf("SourcesLabel() = %q, want empty", got)
	}
}
