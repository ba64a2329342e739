package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/algogrid/internal/ctxlog"
	"github.com/specialistvlad/algogrid/internal/mapfile"
)

// MappingLoader loads YAML and JSON(C) algorithm files, both of which parse
// into a plain mapping before binding.
type MappingLoader struct{}

// NewMappingLoader creates a new MappingLoader.
func NewMappingLoader() *MappingLoader {
	return &MappingLoader{}
}

// Load implements Loader. Relative paths inside the file are resolved
// against the file's directory.
func (l *MappingLoader) Load(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Mapping loader started.", "path", path)

	raw, err := mapfile.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read algorithm config: %w", err)
	}

	model, err := DecodeModel(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	model.ResolvePaths(filepath.Dir(path))

	logger.Debug("Mapping loading complete.", "path", path, "modules", len(model.Modules))
	return model, nil
}
