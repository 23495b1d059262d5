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

import "errors"

// Sentinel errors for the geometry package.
var (
	// ErrInvalidInput indicates invalid input parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMaxDepthExceeded indicates the descriptor tree exceeded the
	// configured recursion depth. Trees are assumed acyclic; this guard
	// turns a pathological input into a per-instance grading error.
	ErrMaxDepthExceeded = errors.New("max recursion depth exceeded")

	// ErrNilDescriptor indicates a nil node inside a descriptor tree.
	ErrNilDescriptor = errors.New("nil descriptor node")
)
