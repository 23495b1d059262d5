// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided inputs that are used in
// file paths or report filenames. Using these validators prevents path
// traversal and malformed category filters from reaching the grading pipeline.
package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// categoryPattern matches valid BIM category names.
// Allows: letters, digits, spaces, underscores, hyphens (e.g. "Structural Framing").
// Max length: 128 characters.
var categoryPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _\-]{0,127}$`)

// ValidateCategory validates a category filter value.
//
// Valid categories:
//   - 1-128 characters
//   - Letters, digits, spaces, underscores, hyphens
//   - Must start with a letter or digit
//
// An empty string is valid: it means no category filter is applied.
//
// Returns an error if the category is invalid.
//
// Example:
//
//	if err := validation.ValidateCategory(category); err != nil {
//	    return nil, fmt.Errorf("invalid category: %w", err)
//	}
func ValidateCategory(category string) error {
	if category == "" {
		return nil
	}

	if !categoryPattern.MatchString(category) {
		return fmt.Errorf("invalid category format: %q (must be 1-128 alphanumeric chars, spaces, underscores, or hyphens)", category)
	}

	return nil
}

// SanitizeCategory normalizes and validates a category filter value.
// Returns the trimmed category if valid, or an error if invalid.
//
// Use this when you need both validation and normalization:
//
//	safeCategory, err := validation.SanitizeCategory(userInput)
//	if err != nil {
//	    return err
//	}
func SanitizeCategory(category string) (string, error) {
	normalized := strings.TrimSpace(category)
	if err := ValidateCategory(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// ValidateReportPath validates a user-supplied report output path.
//
// Rules:
//   - Must not be empty
//   - Must not contain ".." path elements (prevents traversal)
//   - Must end in .csv
//
// An empty path is handled by the caller (a temp-file default is used),
// so this function rejects it.
//
// Returns an error if the path is invalid.
func ValidateReportPath(path string) error {
	if path == "" {
		return fmt.Errorf("report path cannot be empty")
	}

	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("report path must not contain '..': %q", path)
		}
	}

	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return fmt.Errorf("report path must end in .csv: %q", path)
	}

	return nil
}
