package module

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/specialistvlad/algogrid/internal/capability"
	"github.com/specialistvlad/algogrid/internal/config"
	"github.com/specialistvlad/algogrid/internal/ctxlog"
	"github.com/specialistvlad/algogrid/internal/hyperparam"
)

// ResolveFunc resolves a capability with one hyperparameter set.
type ResolveFunc func(ctx context.Context, hyperparameters map[string]any) (any, error)

type resolver func(d *Descriptor, ctx context.Context, hyperparameters map[string]any) (any, error)

var resolvers = map[capability.Type]resolver{
	capability.BaseModel:         (*Descriptor).ResolveBaseModel,
	capability.HardExampleMining: (*Descriptor).ResolveHardExampleMining,
}

// BuiltinMethod describes a built-in implementation selected by name, for a
// caller-side dispatcher.
type BuiltinMethod struct {
	Method string         `json:"method" yaml:"method" cbor:"method"`
	Param  map[string]any `json:"param,omitempty" yaml:"param,omitempty" cbor:"param,omitempty"`
}

// AsMap returns {"method": Method, "param": Param}; the "param" key is
// present only when Param is non-empty.
func (b BuiltinMethod) AsMap() map[string]any {
	out := map[string]any{"method": b.Method}
	if len(b.Param) > 0 {
		out["param"] = maps.Clone(b.Param)
	}
	return out
}

// Func returns the resolution operation for the named capability type.
func (d *Descriptor) Func(capabilityType string) (ResolveFunc, error) {
	fn, ok := resolvers[capability.Type(capabilityType)]
	if !ok {
		return nil, &UnsupportedCapabilityError{Capability: capabilityType}
	}
	return func(ctx context.Context, hp map[string]any) (any, error) {
		return fn(d, ctx, hp)
	}, nil
}

// Resolve resolves the named capability type with hyperparameters.
func (d *Descriptor) Resolve(ctx context.Context, capabilityType string, hyperparameters map[string]any) (any, error) {
	fn, err := d.Func(capabilityType)
	if err != nil {
		return nil, err
	}
	return fn(ctx, hyperparameters)
}

// ResolveBaseModel constructs the base model implementation. The base model
// has no built-in fallback, so a source location is mandatory.
func (d *Descriptor) ResolveBaseModel(ctx context.Context, hyperparameters map[string]any) (any, error) {
	if d.url == "" {
		return nil, config.NewError(config.KeyURL, d.url, "url of basemodel module must be provided")
	}
	return d.construct(ctx, capability.BaseModel, hyperparameters)
}

// ResolveHardExampleMining constructs the loaded mining implementation, or,
// without a source location, returns a BuiltinMethod naming the built-in
// miner.
func (d *Descriptor) ResolveHardExampleMining(ctx context.Context, hyperparameters map[string]any) (any, error) {
	if d.url != "" {
		return d.construct(ctx, capability.HardExampleMining, hyperparameters)
	}

	ctxlog.FromContext(ctx).Debug("Using built-in hard example mining method.", "method", d.name)
	method := BuiltinMethod{Method: d.name}
	if len(hyperparameters) > 0 {
		method.Param = hyperparam.Clone(hyperparameters)
	}
	return method, nil
}

func (d *Descriptor) construct(ctx context.Context, capType capability.Type, hyperparameters map[string]any) (any, error) {
	logger := ctxlog.FromContext(ctx)

	if err := d.load(ctx); err != nil {
		return nil, &LoadError{Capability: capType, Name: d.name, Path: d.url, Err: err}
	}
	if d.deps.Registry == nil {
		return nil, &ResolutionError{Capability: capType, Name: d.name, Err: errors.New("no registry configured")}
	}

	ctor, err := d.deps.Registry.Lookup(capType.Namespace(), d.name)
	if err != nil {
		return nil, &ResolutionError{Capability: capType, Name: d.name, Err: err}
	}

	inst, err := safeConstruct(ctor, hyperparam.Clone(hyperparameters))
	if err != nil {
		return nil, &ResolutionError{Capability: capType, Name: d.name, Err: err}
	}
	logger.Debug("Module implementation constructed.", "type", capType, "name", d.name)
	return inst, nil
}

func safeConstruct(ctor func(map[string]any) (any, error), params map[string]any) (inst any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("constructor panicked: %v", r)
		}
	}()
	return ctor(params)
}
