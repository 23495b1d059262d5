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

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// familyHashBytes is the truncation length of the identity digest.
// 8 bytes rendered as hex yields a 16-character tag.
const familyHashBytes = 8

// FamilyHash returns a deterministic identity tag for a family/type with
// the given measured geometry.
//
// # Description
//
// The tag lets the same family/type with the same measured geometry be
// recognized across host documents for trend tracking. It hashes the tuple
// (familyName, typeName, totalFaces, solidCount, meshCount) with SHA-256
// and keeps the first 8 bytes as lowercase hex. This is an opaque identity
// tag, not a security primitive; low-probability collisions are acceptable.
//
// # Inputs
//
//   - familyName: Family name as reported by the host document.
//   - typeName: Type name within the family.
//   - fp: The instance fingerprint. Must not be nil.
//
// # Outputs
//
//   - string: 16-character lowercase hex tag.
func FamilyHash(familyName, typeName string, fp *Fingerprint) string {
	key := strings.Join([]string{
		familyName,
		typeName,
		fmt.Sprintf("%d", fp.TotalFaces),
		fmt.Sprintf("%d", fp.SolidCount),
		fmt.Sprintf("%d", fp.MeshCount),
	}, "|")

	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:familyHashBytes])
}
