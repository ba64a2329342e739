package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/algogrid/internal/config"
	"github.com/specialistvlad/algogrid/internal/ctxlog"
	"github.com/specialistvlad/algogrid/internal/hcl_adapter"
	"github.com/specialistvlad/algogrid/internal/loader"
	"github.com/specialistvlad/algogrid/internal/mapfile"
	"github.com/specialistvlad/algogrid/internal/module"
	"github.com/specialistvlad/algogrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	loader   *loader.Loader
}

// NewApp is the constructor for the main application. The report is written
// to outW and logs to logW. coreModules are always installed; modules are
// further compiled-in implementations. Both go in before any external
// source is loaded.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	reg.Install(coreModules...)
	reg.Install(modules...)
	logger.Debug("Compiled-in modules registered.", "count", len(coreModules)+len(modules), "registrations", reg.Len())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		loader:   loader.New(reg),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Descriptors loads the algorithm configuration and builds one descriptor
// per module, in file order.
func (a *App) Descriptors(ctx context.Context) ([]*module.Descriptor, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	model, err := configLoaderFor(a.config.ConfigPath).Load(ctx, a.config.ConfigPath)
	if err != nil {
		return nil, err
	}

	deps := module.Deps{Registry: a.registry, Loader: a.loader, Files: mapfile.Reader{}}
	descriptors := make([]*module.Descriptor, 0, len(model.Modules))
	for i, cfg := range model.Modules {
		d, err := module.New(ctx, cfg, deps)
		if err != nil {
			return nil, &moduleError{index: i, name: cfg.Name, err: err}
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

func configLoaderFor(path string) config.Loader {
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return hcl_adapter.NewLoader()
	}
	return config.NewMappingLoader()
}
