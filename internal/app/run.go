package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/algogrid/internal/capability"
	"github.com/specialistvlad/algogrid/internal/ctxlog"
	"github.com/specialistvlad/algogrid/internal/hyperparam"
	"github.com/specialistvlad/algogrid/internal/loader"
	"github.com/specialistvlad/algogrid/internal/module"
)

// Run loads the configuration, expands every module's hyperparameters,
// optionally resolves each trial once, and writes the report.
func (a *App) Run(ctx context.Context) error {
	runID := uuid.New()
	a.logger = a.logger.With("run_id", runID.String())
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "config", a.config.ConfigPath)

	descriptors, err := a.Descriptors(ctx)
	if err != nil {
		return fmt.Errorf("failed to load modules: %w", err)
	}

	report := &Report{RunID: runID.String(), Config: a.config.ConfigPath}
	for _, d := range descriptors {
		mr, err := a.moduleReport(ctx, d)
		if err != nil {
			return err
		}
		report.Modules = append(report.Modules, mr)
		a.logger.Info("Module expanded.", "type", d.Capability(), "name", d.Name(), "trials", len(mr.Trials))
	}

	if err := writeReport(a.outW, a.config.OutputFormat, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) moduleReport(ctx context.Context, d *module.Descriptor) (ModuleReport, error) {
	mr := ModuleReport{
		Type:   d.Capability().String(),
		Name:   d.Name(),
		URL:    d.URL(),
		Trials: make([]Trial, 0, d.Len()),
	}

	for i, hp := range d.HyperparameterSets() {
		fp, err := hyperparam.Fingerprint(hp)
		if err != nil {
			return mr, fmt.Errorf("module %s: trial %d: %w", d.Name(), i, err)
		}
		trial := Trial{Index: i, Fingerprint: fp, Hyperparameters: hp}

		if a.config.Resolve {
			resolved, err := d.Resolve(ctx, d.Capability().String(), hp)
			if err != nil {
				return mr, fmt.Errorf("module %s: trial %d: %w", d.Name(), i, err)
			}
			if method, ok := resolved.(module.BuiltinMethod); ok {
				if err := a.checkBuiltin(method); err != nil {
					return mr, fmt.Errorf("module %s: trial %d: %w", d.Name(), i, err)
				}
			}
			trial.Resolved = describe(resolved)
			if obj, ok := resolved.(*loader.Object); ok {
				obj.Release()
			}
		}
		mr.Trials = append(mr.Trials, trial)
	}
	return mr, nil
}

// checkBuiltin constructs the built-in miner a BuiltinMethod names, the way
// the consumer of the method would, so an unknown method or a bad parameter
// fails the dry run.
func (a *App) checkBuiltin(method module.BuiltinMethod) error {
	ctor, err := a.registry.Lookup(capability.NamespaceHEM, method.Method)
	if err != nil {
		return fmt.Errorf("built-in hard example mining method: %w", err)
	}
	params := method.Param
	if params == nil {
		params = map[string]any{}
	}
	if _, err := ctor(params); err != nil {
		return fmt.Errorf("built-in hard example mining method %s: %w", method.Method, err)
	}
	return nil
}

// describe names a resolved implementation for the report.
func describe(resolved any) string {
	switch r := resolved.(type) {
	case module.BuiltinMethod:
		return "builtin:" + r.Method
	case *loader.Object:
		return "lua:" + r.Kind()
	default:
		return fmt.Sprintf("go:%T", resolved)
	}
}
