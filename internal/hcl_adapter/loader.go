package hcl_adapter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/algogrid/internal/config"
	"github.com/specialistvlad/algogrid/internal/ctxlog"
	"github.com/specialistvlad/algogrid/internal/ctyconv"
	"github.com/specialistvlad/algogrid/internal/hyperparam"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes the top-level blocks of an algorithm file.
type fileRoot struct {
	Modules []*moduleBlock `hcl:"module,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

type moduleBlock struct {
	Type            string                 `hcl:"type,label"`
	Name            string                 `hcl:"name,optional"`
	URL             string                 `hcl:"url,optional"`
	Hyperparameters []*hyperparameterBlock `hcl:"hyperparameter,block"`
	Remain          hcl.Body               `hcl:",remain"`
}

type hyperparameterBlock struct {
	Name   string         `hcl:"name,label"`
	Values hcl.Expression `hcl:"values,optional"`
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	hclFile, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	if len(root.Modules) == 0 {
		return nil, fmt.Errorf("%s: %w", path, config.NewError("modules", nil, "no module block found"))
	}

	model := &config.Model{Modules: make([]*config.Module, 0, len(root.Modules))}
	for i, block := range root.Modules {
		mod, err := l.translateModule(ctx, block)
		if err != nil {
			return nil, fmt.Errorf("%s: module %d (%q): %w", path, i, block.Type, err)
		}
		model.Modules = append(model.Modules, mod)
	}
	model.ResolvePaths(filepath.Dir(path))

	logger.Debug("HCL loading complete.", "path", path, "modules", len(model.Modules))
	return model, nil
}

func (l *Loader) translateModule(ctx context.Context, block *moduleBlock) (*config.Module, error) {
	mod := &config.Module{
		Type: block.Type,
		Name: block.Name,
		URL:  block.URL,
	}

	for _, hp := range block.Hyperparameters {
		field := fmt.Sprintf("hyperparameter.%s.values", hp.Name)
		if !isExprDefined(ctx, hp.Values, field) {
			return nil, config.NewError(field, nil, "must be provided")
		}

		val, diags := hp.Values.Value(nil)
		if diags.HasErrors() {
			return nil, &config.ConfigurationError{Field: field, Reason: "cannot be evaluated", Err: diags}
		}
		native, err := ctyconv.ToNative(val)
		if err != nil {
			return nil, &config.ConfigurationError{Field: field, Reason: "cannot be converted", Err: err}
		}
		values, ok := native.([]any)
		if !ok {
			return nil, config.NewError(field, native, "must be a list, got %s", val.Type().FriendlyName())
		}
		mod.Hyperparameters = append(mod.Hyperparameters, hyperparam.Axis{Name: hp.Name, Values: values})
	}
	return mod, nil
}
