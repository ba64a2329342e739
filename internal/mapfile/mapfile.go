// Package mapfile reads a local file into a key/value mapping. It backs the
// hyperparameter override files of algorithm configuration and the mapping
// based configuration loaders.
//
// The format is chosen by extension: .yaml/.yml (YAML), .json/.jsonc (JSON
// with comments and trailing commas) and .hcl (top-level attributes).
package mapfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/algogrid/internal/ctyconv"
)

// Reader is the filesystem-backed implementation of the file collaborators
// used during hyperparameter expansion.
type Reader struct{}

// IsLocalFile reports whether path names an existing regular file.
func (Reader) IsLocalFile(path string) bool {
	return IsLocalFile(path)
}

// ReadMapping reads path into a mapping.
func (Reader) ReadMapping(path string) (map[string]any, error) {
	return Read(path)
}

// IsLocalFile reports whether path names an existing regular file.
func IsLocalFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Read parses the file at path into a mapping.
func Read(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var out map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		out, err = ParseYAML(data)
	case ".json", ".jsonc":
		out, err = ParseJSON(data)
	case ".hcl":
		out, err = parseHCL(path, data)
	default:
		return nil, fmt.Errorf("%s: unsupported file extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// ParseYAML decodes a YAML document whose root is a mapping. An empty
// document yields an empty mapping.
func ParseYAML(data []byte) (map[string]any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	m, ok := Normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("yaml root must be a mapping, got %T", raw)
	}
	return m, nil
}

// ParseJSON decodes JSONC into a mapping. Integer literals become int and
// every other number float64, matching the YAML decoder.
func ParseJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	m, ok := Normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("json root must be an object, got %T", raw)
	}
	return m, nil
}

func parseHCL(path string, data []byte) (map[string]any, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing hcl: %w", diags)
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("decoding hcl attributes: %w", diags)
	}

	out := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating %s: %w", name, diags)
		}
		native, err := ctyconv.ToNative(val)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		out[name] = native
	}
	return out, nil
}

// Normalize rewrites decoded YAML/JSON so that every mapping is a
// map[string]any. A json.Number becomes int when written as an integer
// literal and float64 otherwise; decoded floats stay float64, so 1.0 is not
// narrowed to 1.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	case json.Number:
		return normalizeNumber(t)
	default:
		return v
	}
}

func normalizeNumber(n json.Number) any {
	if !strings.ContainsAny(n.String(), ".eE") {
		if i, err := n.Int64(); err == nil && int64(int(i)) == i {
			return int(i)
		}
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	return f
}
