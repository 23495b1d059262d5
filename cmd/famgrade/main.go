// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command famgrade grades extracted family geometry and emits CSV reports.
//
// The input is a JSON array of extracted instances, each carrying its
// identity fields and a list of geometry descriptors:
//
//	[
//	  {
//	    "elementId": 316220,
//	    "uniqueId": "f2ad8c1e-...-000316220",
//	    "category": "Doors",
//	    "familyName": "Single-Flush",
//	    "typeName": "36\" x 84\"",
//	    "geometry": [
//	      {"kind": "solid", "faces": [{"kind": "planar"}], "edgeCount": 12, "volume": 1.5}
//	    ]
//	  }
//	]
//
// Usage:
//
//	famgrade grade --input instances.json
//	famgrade grade --input instances.json --category Doors --grade-type quick
//	famgrade grade --input instances.json --output /tmp/doors.csv --workers 4
//
// The command prints a JSON summary to stdout; the CSV path is included in
// the summary. Logs go to stderr.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/FamGrade/pkg/logging"
	"github.com/AleutianAI/FamGrade/services/grader/config"
)

var (
	cfg    *config.Config
	logger *logging.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config %s: %v\n", configPath, err)
			os.Exit(1)
		}
		cfg = loaded
		logger = logging.New(cfg.LoggerConfig("famgrade"))
	}
}
