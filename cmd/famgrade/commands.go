// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// version is stamped at build time with -ldflags.
var version = "dev"

// --- Global Command Variables ---
var (
	configPath   string
	inputPath    string
	categoryFlag string
	gradeType    string
	includeTypes bool
	outputPath   string
	documentName string
	workers      int

	rootCmd = &cobra.Command{
		Use:   "famgrade",
		Short: "A cli to grade family geometry quality from extracted descriptors",
		Long: `FamGrade scores extracted family geometry on four criteria
(geometry type, face count, import source, nesting depth) and produces
a CSV report plus a JSON summary.`,
	}

	gradeCmd = &cobra.Command{
		Use:   "grade",
		Short: "Grade a collection of extracted instances and write a CSV report",
		Run:   runGrade, // Defined in cmd_grade.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the famgrade version",
		Run:   runVersion, // Defined in cmd_grade.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "famgrade.yaml", "Path to the config file (defaults apply if missing)")

	gradeCmd.Flags().StringVar(&inputPath, "input", "", "Path to the extracted instances JSON file (required)")
	gradeCmd.Flags().StringVar(&categoryFlag, "category", "All", "Category filter ('All' or empty grades everything)")
	gradeCmd.Flags().StringVar(&gradeType, "grade-type", "detailed", "Report schema: detailed or quick")
	gradeCmd.Flags().BoolVar(&includeTypes, "include-types", false, "Include type-level rows in the report")
	gradeCmd.Flags().StringVar(&outputPath, "output", "", "CSV output path (default: famgrade_report_<timestamp>.csv in the temp dir)")
	gradeCmd.Flags().StringVar(&documentName, "document", "", "Source document name echoed into the report")
	gradeCmd.Flags().IntVar(&workers, "workers", -1, "Concurrent grading workers (-1 uses the config value)")
	_ = gradeCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(versionCmd)
}
