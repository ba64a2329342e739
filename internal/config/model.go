package config

import (
	"path/filepath"

	"github.com/specialistvlad/algogrid/internal/hyperparam"
)

// Model is the unified representation of an algorithm configuration file.
type Model struct {
	Modules []*Module
}

// Module is the structured form of one module entry.
type Module struct {
	Type            string
	Name            string
	URL             string
	Hyperparameters []hyperparam.Axis
}

// ResolvePaths makes relative source locations and override file paths
// relative to dir, typically the directory of the configuration file.
func (m *Model) ResolvePaths(dir string) {
	for _, mod := range m.Modules {
		mod.ResolvePaths(dir)
	}
}

// ResolvePaths makes the module's relative paths relative to dir.
func (m *Module) ResolvePaths(dir string) {
	if dir == "" {
		return
	}
	m.URL = resolvePath(dir, m.URL)
	for i, axis := range m.Hyperparameters {
		if axis.Name != hyperparam.OtherHyperparameters {
			continue
		}
		values := make([]any, len(axis.Values))
		for j, v := range axis.Values {
			if s, ok := v.(string); ok {
				values[j] = resolvePath(dir, s)
			} else {
				values[j] = v
			}
		}
		m.Hyperparameters[i].Values = values
	}
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
