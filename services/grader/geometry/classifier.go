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

// Classifier thresholds. Native parametric modeling overwhelmingly produces
// planar/cylindrical/conical faces from extrusions, sweeps and blends;
// free-form-heavy or face-dense-but-simple-poor solids are the signature of
// geometry imported from a different authoring tool.
const (
	// maxNurbsRatio is the ruled/free-form face fraction above which a solid
	// is considered imported.
	maxNurbsRatio = 0.30

	// maxComplexRatio is the complex face fraction above which a solid is
	// considered imported.
	maxComplexRatio = 0.40

	// denseFaceCount is the face count above which simple-surface coverage
	// is checked.
	denseFaceCount = 200

	// minSimpleCoverage is the planar+cylindrical fraction a face-dense
	// solid must reach to still be considered native.
	minSimpleCoverage = 0.50
)

// FaceProfile is the per-surface-kind face census of a single solid.
type FaceProfile struct {
	// Planar is the number of planar faces.
	Planar int `json:"planar"`

	// Cylindrical is the number of cylindrical faces.
	Cylindrical int `json:"cylindrical"`

	// Conical is the number of conical faces.
	Conical int `json:"conical"`

	// RuledOrFreeform is the number of ruled or NURBS/free-form faces.
	RuledOrFreeform int `json:"ruledOrFreeform"`

	// Other is the number of faces with no dedicated bucket.
	Other int `json:"other"`

	// Total is the total face count of the solid.
	Total int `json:"total"`
}

// complexCount returns the number of faces considered complex. A face is
// complex if its kind is RuledOrFreeform or Other.
func (p FaceProfile) complexCount() int {
	return p.RuledOrFreeform + p.Other
}

// ComplexRatio returns the complex face fraction, 0 for empty solids.
func (p FaceProfile) ComplexRatio() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.complexCount()) / float64(p.Total)
}

// NurbsRatio returns the ruled/free-form face fraction, 0 for empty solids.
func (p FaceProfile) NurbsRatio() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.RuledOrFreeform) / float64(p.Total)
}

// SimpleCoverage returns the planar+cylindrical face fraction, 0 for empty
// solids.
func (p FaceProfile) SimpleCoverage() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Planar+p.Cylindrical) / float64(p.Total)
}

// ClassifySolid buckets a solid's faces by surface kind and applies the
// import-source heuristic.
//
// # Description
//
// A solid "looks imported" when any of the following holds over its own
// faces (nested geometry is never considered):
//
//   - NurbsRatio > 0.30
//   - ComplexRatio > 0.40
//   - Total > 200 AND SimpleCoverage < 0.50
//
// This is a heuristic, not ground truth. A hand-modeled free-form solid can
// classify as imported and a low-poly import can classify as native; both
// are acceptable for grading purposes.
//
// # Inputs
//
//   - s: The solid to classify. Must not be nil.
//
// # Outputs
//
//   - FaceProfile: Per-kind face counts.
//   - bool: true if the solid looks imported/complex.
func ClassifySolid(s *Solid) (FaceProfile, bool) {
	var profile FaceProfile

	for _, face := range s.Faces {
		switch face.Kind {
		case SurfacePlanar:
			profile.Planar++
		case SurfaceCylindrical:
			profile.Cylindrical++
		case SurfaceConical:
			profile.Conical++
		case SurfaceRuledOrFreeform:
			profile.RuledOrFreeform++
		default:
			profile.Other++
		}
		profile.Total++
	}

	imported := profile.NurbsRatio() > maxNurbsRatio ||
		profile.ComplexRatio() > maxComplexRatio ||
		(profile.Total > denseFaceCount && profile.SimpleCoverage() < minSimpleCoverage)

	return profile, imported
}
