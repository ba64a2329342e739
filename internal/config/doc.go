// Package config defines the format-agnostic configuration model for
// algorithm modules, the Loader interface for reading it from files, and
// the ConfigurationError type reported for structural problems.
//
// Raw mappings (from YAML or JSON) are bound onto the structured model by
// DecodeModel and DecodeModule, which validate the module type first and
// then check the type of every other recognized key, ignoring unknown ones. The HCL loader lives in the hcl_adapter
// package and produces the same model.
package config
