// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package geometry

import "fmt"

// DefaultMaxDepth is the default recursion guard for descriptor trees.
// Real-world component nesting stays well under 20 levels.
const DefaultMaxDepth = 64

// AggregatorOptions configures geometry aggregation.
type AggregatorOptions struct {
	// MaxDepth bounds the recursion into nested instance references.
	// Exceeding it fails aggregation for the instance (a non-fatal
	// grading error, never a crash).
	MaxDepth int
}

// DefaultAggregatorOptions returns sensible defaults.
func DefaultAggregatorOptions() AggregatorOptions {
	return AggregatorOptions{
		MaxDepth: DefaultMaxDepth,
	}
}

// Aggregator flattens descriptor trees into Fingerprints.
//
// # Description
//
// Aggregator performs a depth-first walk over a descriptor tree, classifying
// each non-degenerate solid via the import-source heuristic and merging
// counts across nested instance references. Degenerate solids (zero faces
// or zero volume) are construction artifacts and excluded from all counts.
//
// # Thread Safety
//
// Safe for concurrent use; the aggregator holds no per-walk state.
type Aggregator struct {
	maxDepth int
}

// NewAggregator creates an aggregator with the given options.
//
// # Inputs
//
//   - opts: Aggregation options; nil uses defaults.
//
// # Outputs
//
//   - *Aggregator: Ready-to-use aggregator.
func NewAggregator(opts *AggregatorOptions) *Aggregator {
	if opts == nil {
		defaults := DefaultAggregatorOptions()
		opts = &defaults
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	return &Aggregator{maxDepth: maxDepth}
}

// Aggregate reduces one instance's descriptor tree to a Fingerprint.
//
// # Description
//
// Walks the tree depth-first. Solids are classified and counted into the
// native or complex-import buckets, meshes always count as mesh imports,
// and instance references increment the nesting count and merge the child
// subtree into the parent (counts are additive, detected sources are a set
// union).
//
// # Inputs
//
//   - nodes: The instance's geometry tree. Empty input yields an empty
//     fingerprint (the caller decides the no-geometry policy).
//
// # Outputs
//
//   - *Fingerprint: The flattened summary. Nil on error.
//   - error: ErrMaxDepthExceeded or ErrNilDescriptor wrapped with position
//     context.
func (a *Aggregator) Aggregate(nodes []Descriptor) (*Fingerprint, error) {
	fp := &Fingerprint{
		detectedSources: make(map[Source]bool),
	}

	if err := a.walk(fp, nodes, 0); err != nil {
		return nil, err
	}

	return fp, nil
}

// walk accumulates one descriptor level into fp.
func (a *Aggregator) walk(fp *Fingerprint, nodes []Descriptor, depth int) error {
	if depth > a.maxDepth {
		return fmt.Errorf("%w: depth %d", ErrMaxDepthExceeded, depth)
	}

	for i, node := range nodes {
		switch n := node.(type) {
		case *Solid:
			a.addSolid(fp, n)

		case *Mesh:
			fp.MeshCount++
			fp.ImportedMeshCount++
			fp.TotalFaces += n.TriangleCount
			fp.detectedSources[SourceMeshImport] = true

		case *InstanceRef:
			fp.NestedInstanceCount++
			if err := a.walk(fp, n.Children, depth+1); err != nil {
				return err
			}

		case nil:
			return fmt.Errorf("%w: index %d at depth %d", ErrNilDescriptor, i, depth)

		default:
			return fmt.Errorf("%w: unexpected descriptor %T", ErrInvalidInput, node)
		}
	}

	return nil
}

// addSolid classifies and counts one solid. Degenerate solids are skipped.
func (a *Aggregator) addSolid(fp *Fingerprint, s *Solid) {
	if len(s.Faces) == 0 || s.Volume == 0 {
		return
	}

	profile, imported := ClassifySolid(s)

	fp.SolidCount++
	fp.TotalFaces += profile.Total
	fp.TotalEdges += s.EdgeCount

	if imported {
		fp.ImportedComplexSolidCount++
		fp.detectedSources[SourceComplexImport] = true
	} else {
		fp.NativeSolidCount++
		fp.detectedSources[SourceNativeModeled] = true
	}
}
