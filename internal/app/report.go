package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Report is the output of a run: every module with its trials.
type Report struct {
	RunID   string         `json:"run_id" yaml:"run_id" cbor:"run_id"`
	Config  string         `json:"config" yaml:"config" cbor:"config"`
	Modules []ModuleReport `json:"modules" yaml:"modules" cbor:"modules"`
}

// ModuleReport lists the trials of one module.
type ModuleReport struct {
	Type   string  `json:"type" yaml:"type" cbor:"type"`
	Name   string  `json:"name" yaml:"name" cbor:"name"`
	URL    string  `json:"url,omitempty" yaml:"url,omitempty" cbor:"url,omitempty"`
	Trials []Trial `json:"trials" yaml:"trials" cbor:"trials"`
}

// Trial is one concrete hyperparameter combination.
type Trial struct {
	Index           int            `json:"index" yaml:"index" cbor:"index"`
	Fingerprint     string         `json:"fingerprint" yaml:"fingerprint" cbor:"fingerprint"`
	Hyperparameters map[string]any `json:"hyperparameters" yaml:"hyperparameters" cbor:"hyperparameters"`
	Resolved        string         `json:"resolved,omitempty" yaml:"resolved,omitempty" cbor:"resolved,omitempty"`
}

func writeReport(w io.Writer, format string, report *Report) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case FormatCBOR:
		return cbor.NewEncoder(w).Encode(report)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
