// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package geometry provides geometry descriptor aggregation for FamGrade.
//
// # Description
//
// This package defines the descriptor tree handed over by the geometry
// extraction collaborator (one tree per family instance), classifies solids
// by inferred origin (native modeling vs. import), and flattens a tree into
// a Fingerprint suitable for criterion grading. Origin classification is
// heuristic-based; false positives and negatives are expected.
//
// # Thread Safety
//
// Descriptors are read-only inputs. The Aggregator is safe for concurrent
// use; Fingerprints are immutable once built.
package geometry

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SurfaceKind categorizes the underlying surface of a solid face.
type SurfaceKind string

const (
	// SurfacePlanar is a flat face, typical of extrusions.
	SurfacePlanar SurfaceKind = "planar"

	// SurfaceCylindrical is a cylindrical face, typical of holes and fillets.
	SurfaceCylindrical SurfaceKind = "cylindrical"

	// SurfaceConical is a conical face, typical of chamfers and sweeps.
	SurfaceConical SurfaceKind = "conical"

	// SurfaceRuledOrFreeform is a ruled or NURBS/free-form face, a signature
	// of geometry authored outside the native modeler (SAT/ACIS imports).
	SurfaceRuledOrFreeform SurfaceKind = "ruled_or_freeform"

	// SurfaceOther covers surface representations with no dedicated bucket.
	SurfaceOther SurfaceKind = "other"
)

// Face is a single face of a solid as reported by the extraction collaborator.
type Face struct {
	// Kind is the surface representation of the face.
	Kind SurfaceKind `json:"surfaceKind"`
}

// Source labels the inferred origin of a piece of geometry.
type Source string

const (
	// SourceNativeModeled indicates geometry authored with native parametric tools.
	SourceNativeModeled Source = "NativeModeled"

	// SourceComplexImport indicates a solid that looks imported (NURBS-heavy
	// or face-dense with poor simple-surface coverage).
	SourceComplexImport Source = "ComplexImport"

	// SourceMeshImport indicates triangle-mesh geometry, always an import.
	SourceMeshImport Source = "MeshImport"
)

// sourceOrder is the fixed display order for detected source labels.
var sourceOrder = []Source{SourceNativeModeled, SourceComplexImport, SourceMeshImport}

// Descriptor is one node of the geometry tree handed over by the extraction
// collaborator. It is a closed union: Solid, Mesh, or InstanceRef.
type Descriptor interface {
	// descriptorNode seals the union; external packages cannot add variants.
	descriptorNode()
}

// Solid describes a boundary-representation solid with its face list.
type Solid struct {
	// Faces is the full face list of the solid.
	Faces []Face `json:"faces"`

	// EdgeCount is the number of edges of the solid.
	EdgeCount int `json:"edgeCount"`

	// Volume is the solid volume in host units. Zero-volume solids are
	// construction artifacts and are excluded from all counts.
	Volume float64 `json:"volume"`
}

// Mesh describes triangle-mesh geometry. Meshes have no edge concept
// distinct from triangle boundaries.
type Mesh struct {
	// TriangleCount is the number of triangles in the mesh.
	TriangleCount int `json:"triangleCount"`

	// VertexCount is the number of vertices in the mesh.
	VertexCount int `json:"vertexCount"`
}

// InstanceRef references the geometry of a nested family instance.
type InstanceRef struct {
	// Children is the geometry tree of the referenced instance.
	Children []Descriptor `json:"children"`
}

func (*Solid) descriptorNode()       {}
func (*Mesh) descriptorNode()        {}
func (*InstanceRef) descriptorNode() {}

// Fingerprint is the flattened numeric summary of one instance's geometry
// tree. It is purely derived from descriptor data and never mutated after
// aggregation.
type Fingerprint struct {
	// SolidCount is the number of non-degenerate solids, including nested
	// instances. Always equals NativeSolidCount + ImportedComplexSolidCount.
	SolidCount int `json:"solidCount"`

	// MeshCount is the number of meshes. Always equals ImportedMeshCount.
	MeshCount int `json:"meshCount"`

	// NestedInstanceCount is the number of instance-reference indirections
	// encountered while flattening (flat count, not tree depth).
	NestedInstanceCount int `json:"nestedInstanceCount"`

	// TotalFaces is additive across the whole tree. Mesh triangles count
	// as faces.
	TotalFaces int `json:"totalFaces"`

	// TotalEdges is additive across solids only.
	TotalEdges int `json:"totalEdges"`

	// NativeSolidCount is the number of solids classified as native-modeled.
	NativeSolidCount int `json:"nativeSolidCount"`

	// ImportedComplexSolidCount is the number of solids classified as
	// complex imports.
	ImportedComplexSolidCount int `json:"importedComplexSolidCount"`

	// ImportedMeshCount is the number of meshes (all meshes are imports).
	ImportedMeshCount int `json:"importedMeshCount"`

	// detectedSources is the set of origin labels seen anywhere in the tree.
	detectedSources map[Source]bool
}

// HasSource reports whether the given origin label was detected.
func (f *Fingerprint) HasSource(s Source) bool {
	return f.detectedSources[s]
}

// Sources returns the detected origin labels in fixed display order
// (NativeModeled, ComplexImport, MeshImport).
func (f *Fingerprint) Sources() []Source {
	var out []Source
	for _, s := range sourceOrder {
		if f.detectedSources[s] {
			out = append(out, s)
		}
	}
	return out
}

// SourcesLabel returns the detected sources as a semicolon-joined string,
// the rendering used by report rows.
func (f *Fingerprint) SourcesLabel() string {
	sources := f.Sources()
	parts := make([]string, len(sources))
	for i, s := range sources {
		parts[i] = string(s)
	}
	return strings.Join(parts, ";")
}

// descriptorEnvelope is the tagged JSON encoding of a Descriptor node.
//
// The extraction collaborator serializes trees with a "kind" discriminator:
//
//	{"kind": "solid", "faces": [...], "edgeCount": 24, "volume": 1.5}
//	{"kind": "mesh", "triangleCount": 1200, "vertexCount": 640}
//	{"kind": "instance", "children": [...]}
type descriptorEnvelope struct {
	Kind          string            `json:"kind"`
	Faces         []Face            `json:"faces,omitempty"`
	EdgeCount     int               `json:"edgeCount,omitempty"`
	Volume        float64           `json:"volume,omitempty"`
	TriangleCount int               `json:"triangleCount,omitempty"`
	VertexCount   int               `json:"vertexCount,omitempty"`
	Children      []json.RawMessage `json:"children,omitempty"`
}

// DecodeDescriptor decodes one tagged descriptor node (and its subtree)
// from JSON.
//
// # Inputs
//
//   - data: JSON encoding of a single descriptor node.
//
// # Outputs
//
//   - Descriptor: The decoded node.
//   - error: Non-nil if the kind tag is missing or unknown.
func DecodeDescriptor(data []byte) (Descriptor, error) {
	var env descriptorEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode descriptor: %w", err)
	}

	switch env.Kind {
	case "solid":
		return &Solid{Faces: env.Faces, EdgeCount: env.EdgeCount, Volume: env.Volume}, nil
	case "mesh":
		return &Mesh{TriangleCount: env.TriangleCount, VertexCount: env.VertexCount}, nil
	case "instance":
		children, err := DecodeDescriptors(env.Children)
		if err != nil {
			return nil, err
		}
		return &InstanceRef{Children: children}, nil
	case "":
		return nil, fmt.Errorf("%w: descriptor node missing kind tag", ErrInvalidInput)
	default:
		return nil, fmt.Errorf("%w: unknown descriptor kind %q", ErrInvalidInput, env.Kind)
	}
}

// DecodeDescriptors decodes a list of tagged descriptor nodes.
func DecodeDescriptors(raw []json.RawMessage) ([]Descriptor, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]Descriptor, 0, len(raw))
	for _, r := range raw {
		node, err := DecodeDescriptor(r)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}
