package module

import (
	"context"
	"errors"
	"sync"

	"github.com/specialistvlad/algogrid/internal/capability"
	"github.com/specialistvlad/algogrid/internal/config"
	"github.com/specialistvlad/algogrid/internal/ctxlog"
	"github.com/specialistvlad/algogrid/internal/hyperparam"
	"github.com/specialistvlad/algogrid/internal/mapfile"
	"github.com/specialistvlad/algogrid/internal/registry"
)

// Loader makes the implementations declared in a source file available in
// a registry. Loading mutates process-wide state: every implementation the
// source registers stays registered for the lifetime of the registry, and
// names must be unique across all sources loaded into one registry.
type Loader interface {
	Load(ctx context.Context, path string) error
}

// Deps are the collaborators a Descriptor resolves capabilities with.
type Deps struct {
	Registry *registry.Registry
	Loader   Loader
	// Files reads other_hyperparameters override files. Defaults to the
	// local filesystem.
	Files hyperparam.FileReader
}

// Descriptor is a validated module configuration with its expanded
// hyperparameter sets. It is immutable after New; the only state it
// acquires later is the outcome of loading its source.
type Descriptor struct {
	capability capability.Type
	name       string
	url        string
	hpSets     []map[string]any
	deps       Deps

	loadOnce sync.Once
	loadErr  error
}

// New validates cfg and expands its hyperparameters. Every failure is a
// *config.ConfigurationError. Field validation happens before any override
// file is read.
func New(ctx context.Context, cfg *config.Module, deps Deps) (*Descriptor, error) {
	if cfg == nil {
		return nil, config.NewError("", nil, "module config must be provided")
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if deps.Files == nil {
		deps.Files = mapfile.Reader{}
	}

	sets, err := hyperparam.Expand(ctx, cfg.Hyperparameters, deps.Files)
	if err != nil {
		return nil, &config.ConfigurationError{Field: config.KeyHyperparameters, Reason: "cannot be expanded", Err: err}
	}

	d := &Descriptor{
		capability: capability.Type(cfg.Type),
		name:       cfg.Name,
		url:        cfg.URL,
		hpSets:     sets,
		deps:       deps,
	}
	ctxlog.FromContext(ctx).Debug("Module descriptor created.", "type", d.capability, "name", d.name, "url", d.url, "hyperparameter_sets", len(sets))
	return d, nil
}

// FromMapping binds an untyped configuration mapping and builds a
// Descriptor from it.
func FromMapping(ctx context.Context, raw map[string]any, deps Deps) (*Descriptor, error) {
	cfg, err := config.DecodeModule(raw)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg, deps)
}

func validate(cfg *config.Module) error {
	if err := config.ValidateType(cfg.Type); err != nil {
		return err
	}
	if cfg.Name == "" {
		return config.NewError(config.KeyName, cfg.Name, "module name must be provided and be string type")
	}
	return nil
}

// Capability returns the configured capability type.
func (d *Descriptor) Capability() capability.Type { return d.capability }

// Name returns the implementation or built-in method name.
func (d *Descriptor) Name() string { return d.name }

// URL returns the source location; empty means built-in.
func (d *Descriptor) URL() string { return d.url }

// Len returns the number of hyperparameter sets.
func (d *Descriptor) Len() int { return len(d.hpSets) }

// HyperparameterSets returns a deep copy of every expanded hyperparameter
// set, in enumeration order.
func (d *Descriptor) HyperparameterSets() []map[string]any {
	out := make([]map[string]any, len(d.hpSets))
	for i, hp := range d.hpSets {
		out[i] = hyperparam.Clone(hp)
	}
	return out
}

// load runs the configured source through the Loader at most once.
func (d *Descriptor) load(ctx context.Context) error {
	d.loadOnce.Do(func() {
		if d.deps.Loader == nil {
			d.loadErr = errors.New("no module loader configured")
			return
		}
		d.loadErr = d.deps.Loader.Load(ctx, d.url)
	})
	return d.loadErr
}
