// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package batch runs the grading engine over collections of instances.
//
// # Description
//
// This package implements the batch reporter: it grades every instance in
// an input collection, tolerates per-instance failures (a bad instance
// becomes an ERROR row, never an aborted batch), and reduces the results
// to aggregate statistics. Each run is independent; no state survives a
// run and nothing is persisted by the engine itself.
//
// # Thread Safety
//
// A Runner is safe for concurrent use; each Run call carries its own state.
package batch

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/FamGrade/services/grader/geometry"
	"github.com/AleutianAI/FamGrade/services/grader/grading"
)

// Terminal letters that only appear at batch level, outside the A-F rubric.
const (
	// LetterError marks an instance whose grading failed. The failure
	// message is captured on the result; the batch continues.
	LetterError grading.Letter = "ERROR"

	// LetterNoGeometry marks an instance the extraction collaborator found
	// no geometry for. Counted in its own bucket, never forced into a grade.
	LetterNoGeometry grading.Letter = "NO_GEOMETRY"
)

// Grade type values accepted by Request.GradeType. The grade type controls
// only the report column set, never the grading algorithm.
const (
	GradeTypeQuick    = "quick"
	GradeTypeDetailed = "detailed"
)

// batchValidate is the validator instance for batch datatypes.
var batchValidate = validator.New()

// Request is the per-run input contract consumed from the hosting
// collaborator.
type Request struct {
	// Category filters instances case-insensitively. "All" or empty means
	// no filter.
	Category string `json:"category" validate:"max=128"`

	// GradeType selects the report column set: quick or detailed.
	GradeType string `json:"gradeType" validate:"required,oneof=quick detailed"`

	// IncludeTypes records whether the collaborator handed over every
	// placed instance (true) or one representative per family+type (false).
	// Deduplication itself is the collaborator's concern; the engine grades
	// whatever list it is given.
	IncludeTypes bool `json:"includeTypes"`

	// OutputPath is the report destination. Empty delegates the sink to
	// the caller (the CLI falls back to a temp-file convention).
	OutputPath string `json:"outputPath" validate:"omitempty,max=4096"`
}

// Validate checks the request against its validation tags.
func (r *Request) Validate() error {
	if err := batchValidate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// Instance is one family instance with its extracted geometry tree.
type Instance struct {
	// ElementID is the opaque element identifier in the host document.
	ElementID string `json:"elementId"`

	// UniqueID is the stable unique identifier across document sessions.
	UniqueID string `json:"uniqueId"`

	// Category is the host category of the instance.
	Category string `json:"category"`

	// FamilyName is the family the instance belongs to.
	FamilyName string `json:"familyName"`

	// TypeName is the type within the family.
	TypeName string `json:"typeName"`

	// Geometry is the extracted descriptor tree. Nil or empty means the
	// extraction collaborator found no geometry.
	Geometry []geometry.Descriptor `json:"-"`
}

// instanceEnvelope mirrors Instance for JSON decoding with tagged
// descriptor nodes.
type instanceEnvelope struct {
	ElementID  string            `json:"elementId"`
	UniqueID   string            `json:"uniqueId"`
	Category   string            `json:"category"`
	FamilyName string            `json:"familyName"`
	TypeName   string            `json:"typeName"`
	Geometry   []json.RawMessage `json:"geometry"`
}

// UnmarshalJSON decodes an instance with its tagged geometry tree.
func (in *Instance) UnmarshalJSON(data []byte) error {
	var env instanceEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	geo, err := geometry.DecodeDescriptors(env.Geometry)
	if err != nil {
		return err
	}

	*in = Instance{
		ElementID:  env.ElementID,
		UniqueID:   env.UniqueID,
		Category:   env.Category,
		FamilyName: env.FamilyName,
		TypeName:   env.TypeName,
		Geometry:   geo,
	}
	return nil
}

// Result is one row of batch output.
type Result struct {
	// Element identity, copied from the input instance.
	ElementID  string `json:"elementId"`
	UniqueID   string `json:"uniqueId"`
	Category   string `json:"category"`
	FamilyName string `json:"familyName"`
	TypeName   string `json:"typeName"`

	// HasGeometry is false when extraction found no geometry. Such rows
	// are reported in the no-geometry bucket and excluded from averages.
	HasGeometry bool `json:"hasGeometry"`

	// Fingerprint is the flattened geometry summary. Nil for no-geometry
	// and ERROR rows.
	Fingerprint *geometry.Fingerprint `json:"fingerprint,omitempty"`

	// Criteria holds the four criterion grades. Zero for non-graded rows.
	Criteria grading.CriterionSet `json:"criteria"`

	// Overall is the combined grade, or the ERROR/NO_GEOMETRY terminal
	// state.
	Overall grading.OverallGrade `json:"overall"`

	// FamilyHash is the cross-document identity tag. Empty for non-graded
	// rows.
	FamilyHash string `json:"familyHash,omitempty"`

	// FailureMessage is the one-line failure reason for ERROR rows.
	FailureMessage string `json:"failureMessage,omitempty"`
}

// IsError reports whether grading this instance failed.
func (r *Result) IsError() bool {
	return r.Overall.Letter == LetterError
}

// Graded reports whether the row carries a real A-F grade.
func (r *Result) Graded() bool {
	return r.HasGeometry && !r.IsError()
}

// Report is the full output of one batch run.
type Report struct {
	// RunID uniquely identifies the run, for correlating logs and reports.
	RunID string `json:"runId"`

	// GeneratedAt is when the run finished aggregating.
	GeneratedAt time.Time `json:"generatedAt"`

	// DocumentName names the host document the instances came from.
	DocumentName string `json:"documentName,omitempty"`

	// Request echoes the run input.
	Request Request `json:"request"`

	// Results holds one row per instance, input order preserved.
	Results []Result `json:"results"`

	// Stats holds the aggregate statistics.
	Stats Stats `json:"stats"`
}

// State tracks a batch run through its lifecycle. No state is resumable.
type State int

const (
	StateIdle State = iota
	StateCollecting
	StateGrading
	StateAggregating
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollecting:
		return "collecting"
	case StateGrading:
		return "grading"
	case StateAggregating:
		return "aggregating"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
