package app

import (
	"errors"
	"fmt"
	"slices"
)

// Output formats accepted for the run report.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCBOR = "cbor"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // algorithm file: .yaml, .yml, .json, .jsonc or .hcl
	Resolve    bool   // construct every trial's implementation once

	OutputFormat string
	LogFormat    string
	LogLevel     string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = FormatJSON
	}
	if !slices.Contains([]string{FormatJSON, FormatYAML, FormatCBOR}, cfg.OutputFormat) {
		return nil, fmt.Errorf("invalid output format %q: must be 'json', 'yaml' or 'cbor'", cfg.OutputFormat)
	}
	return &cfg, nil
}
