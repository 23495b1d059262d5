// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/FamGrade/pkg/validation"
	"github.com/AleutianAI/FamGrade/services/grader/batch"
	"github.com/AleutianAI/FamGrade/services/grader/report"
)

// maxInputFileSize bounds the instances JSON file (64 MB). Extraction
// payloads for large documents stay well under this.
const maxInputFileSize = 64 * 1024 * 1024

// runGrade executes a grading run end to end: load instances, grade,
// write the CSV report, print the JSON summary to stdout.
//
// Per-instance failures become ERROR rows inside the report. Only
// whole-run failures (bad input, empty category) fail the command, and
// those still print a machine-readable failure summary.
func runGrade(cmd *cobra.Command, args []string) {
	defer logger.Close()

	category, err := validation.SanitizeCategory(categoryFlag)
	if err != nil {
		failAndExit(err)
	}

	csvPath := outputPath
	if csvPath == "" {
		csvPath = defaultReportPath()
	} else if err := validation.ValidateReportPath(csvPath); err != nil {
		failAndExit(err)
	}

	instances, err := loadInstances(inputPath)
	if err != nil {
		failAndExit(err)
	}

	runWorkers := workers
	if runWorkers < 0 {
		runWorkers = cfg.Grading.Workers
	}

	runner := batch.NewRunner(&batch.RunnerOptions{
		MaxDepth:           cfg.Grading.MaxRecursionDepth,
		Workers:            runWorkers,
		TopRecommendations: cfg.Grading.TopRecommendations,
		DocumentName:       documentName,
		Logger:             logger,
	})

	req := batch.Request{
		Category:     category,
		GradeType:    gradeType,
		IncludeTypes: includeTypes,
		OutputPath:   csvPath,
	}

	rep, err := runner.Run(context.Background(), req, instances)
	if err != nil {
		failAndExit(err)
	}

	if err := report.WriteFile(csvPath, rep); err != nil {
		failAndExit(fmt.Errorf("write report: %w", err))
	}

	printJSON(report.BuildSummary(rep, csvPath))
}

// runVersion prints the build version.
func runVersion(cmd *cobra.Command, args []string) {
	fmt.Printf("famgrade %s\n", version)
}

// loadInstances reads and decodes the extracted instances file.
func loadInstances(path string) ([]batch.Instance, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if info.Size() > maxInputFileSize {
		return nil, fmt.Errorf("input file too large: %d bytes (max %d)", info.Size(), maxInputFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var instances []batch.Instance
	if err := json.Unmarshal(data, &instances); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	return instances, nil
}

// defaultReportPath builds the conventional temp-dir report path,
// famgrade_report_<timestamp>.csv.
func defaultReportPath() string {
	name := fmt.Sprintf("famgrade_report_%s.csv", time.Now().Format("20060102_150405"))
	return filepath.Join(os.TempDir(), name)
}

// failAndExit prints a machine-readable failure summary to stdout and
// exits non-zero. Callers of the CLI parse stdout as JSON either way.
func failAndExit(err error) {
	logger.Error("grading run failed", "error", err.Error())
	printJSON(report.FailureSummary(err))
	logger.Close()
	os.Exit(1)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
