// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config provides configuration loading for the grader service.
//
// The grading rubric (thresholds, weights, letter cutoffs) is deliberately
// NOT configurable: it is the tested contract of the engine. Configuration
// covers operational knobs only: recursion guard, worker count, report
// shaping, and logging.
//
// Thread Safety:
//
//	All exported functions are safe for concurrent use.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/FamGrade/pkg/logging"
)

// MaxConfigFileSize is the maximum allowed config file size (256KB).
// Prevents memory issues from malformed files.
const MaxConfigFileSize = 256 * 1024

//go:embed famgrade.yaml
var defaultConfigYAML []byte

// configValidate is the validator instance for config structs.
var configValidate = validator.New()

// Config is the root grader configuration.
type Config struct {
	Grading GradingConfig `yaml:"grading" validate:"required"`
	Logging LoggingConfig `yaml:"logging"`
}

// GradingConfig holds the operational grading knobs.
type GradingConfig struct {
	// MaxRecursionDepth bounds descriptor tree recursion.
	MaxRecursionDepth int `yaml:"max_recursion_depth" validate:"gte=1,lte=512"`

	// TopRecommendations is how many recurring recommendations reports
	// surface.
	TopRecommendations int `yaml:"top_recommendations" validate:"gte=1,lte=50"`

	// Workers is the concurrent grading worker count. 0 grades
	// sequentially.
	Workers int `yaml:"workers" validate:"gte=0,lte=64"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, or error.
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Dir enables file logging when set.
	Dir string `yaml:"dir"`

	// JSON switches stderr output to JSON format.
	JSON bool `yaml:"json"`

	// Quiet disables stderr output.
	Quiet bool `yaml:"quiet"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := parse(defaultConfigYAML)
	if err != nil {
		// The embedded defaults are compiled in and covered by tests;
		// failing to parse them is a programming error.
		panic(fmt.Sprintf("embedded default config invalid: %v", err))
	}
	return cfg
}

// Load reads configuration from path, falling back to the embedded
// defaults when the file does not exist.
//
// # Inputs
//
//   - path: Config file path.
//
// # Outputs
//
//   - *Config: Parsed and validated configuration.
//   - error: Non-nil on read, parse, or validation failure.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > MaxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), MaxConfigFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return parse(data)
}

// parse unmarshals and validates one config document.
func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := configValidate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoggerConfig maps the logging section to a logging.Config.
func (c *Config) LoggerConfig(service string) logging.Config {
	level := logging.LevelInfo
	switch c.Logging.Level {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}

	return logging.Config{
		Level:   level,
		LogDir:  c.Logging.Dir,
		Service: service,
		JSON:    c.Logging.JSON,
		Quiet:   c.Logging.Quiet,
	}
}
