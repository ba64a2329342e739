package loader

import (
	"context"
	"fmt"
	"plugin"

	"github.com/specialistvlad/algogrid/internal/ctxlog"
	"github.com/specialistvlad/algogrid/internal/registry"
)

// RegisterSymbol is the function a Go plugin exports to install its
// implementations.
const RegisterSymbol = "Register"

func (l *Loader) loadPlugin(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Opening Go plugin.", "path", path)

	p, err := plugin.Open(path)
	if err != nil {
		return fmt.Errorf("open plugin: %w", err)
	}
	sym, err := p.Lookup(RegisterSymbol)
	if err != nil {
		return fmt.Errorf("plugin %s: %w", path, err)
	}
	register, ok := sym.(func(*registry.Registry) error)
	if !ok {
		return fmt.Errorf("plugin %s: %s has type %T, want func(*registry.Registry) error", path, RegisterSymbol, sym)
	}
	before := l.reg.Len()
	if err := register(l.reg); err != nil {
		return fmt.Errorf("plugin %s: register: %w", path, err)
	}
	logger.Debug("Registered plugin implementations.", "source", path, "count", l.reg.Len()-before)
	return nil
}
