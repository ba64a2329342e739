package module

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/algogrid/internal/capability"
	"github.com/specialistvlad/algogrid/internal/config"
	"github.com/specialistvlad/algogrid/internal/hyperparam"
	"github.com/specialistvlad/algogrid/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoader registers fixed constructors when a known path is loaded.
type fakeLoader struct {
	reg     *registry.Registry
	sources map[string]map[capability.Namespace]map[string]registry.Constructor
	calls   int
}

func (l *fakeLoader) Load(_ context.Context, path string) error {
	l.calls++
	src, ok := l.sources[path]
	if !ok {
		return errors.New("no such file or directory")
	}
	for ns, ctors := range src {
		for name, ctor := range ctors {
			if err := l.reg.RegisterFrom(path, ns, name, ctor); err != nil {
				return err
			}
		}
	}
	return nil
}

type fakeModel struct {
	params map[string]any
}

func newFixture() (*registry.Registry, *fakeLoader) {
	reg := registry.New()
	ld := &fakeLoader{
		reg: reg,
		sources: map[string]map[capability.Namespace]map[string]registry.Constructor{
			"fpn.lua": {
				capability.NamespaceGeneral: {
					"FPN": func(p map[string]any) (any, error) { return &fakeModel{params: p}, nil },
					"Broken": func(map[string]any) (any, error) {
						return nil, errors.New("unexpected keyword argument 'depth'")
					},
					"Panics": func(map[string]any) (any, error) { panic("boom") },
				},
			},
			"ibt.lua": {
				capability.NamespaceHEM: {
					"IBT": func(p map[string]any) (any, error) { return &fakeModel{params: p}, nil },
				},
			},
		},
	}
	return reg, ld
}

func TestNewValidation(t *testing.T) {
	testCases := []struct {
		name          string
		cfg           *config.Module
		expectedField string
		listsAllowed  bool
	}{
		{name: "empty type", cfg: &config.Module{Name: "FPN"}, expectedField: "type", listsAllowed: true},
		{name: "unknown type", cfg: &config.Module{Type: "task_definition", Name: "FPN"}, expectedField: "type", listsAllowed: true},
		{name: "empty name", cfg: &config.Module{Type: "basemodel"}, expectedField: "name"},
		{
			name: "duplicate axis",
			cfg: &config.Module{Type: "basemodel", Name: "FPN", Hyperparameters: []hyperparam.Axis{
				{Name: "lr", Values: []any{0.1}},
				{Name: "lr", Values: []any{0.2}},
			}},
			expectedField: "hyperparameters",
		},
		{
			name: "missing override file",
			cfg: &config.Module{Type: "basemodel", Name: "FPN", Hyperparameters: []hyperparam.Axis{
				{Name: hyperparam.OtherHyperparameters, Values: []any{"/does/not/exist.yaml"}},
			}},
			expectedField: "hyperparameters",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(context.Background(), tc.cfg, Deps{})
			require.Error(t, err)
			var cfgErr *config.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.expectedField, cfgErr.Field)
			if tc.listsAllowed {
				assert.Contains(t, err.Error(), "basemodel, hard_example_mining")
			}
		})
	}

	_, err := New(context.Background(), nil, Deps{})
	require.Error(t, err)
}

func TestNewDuplicateAxisKeepsCause(t *testing.T) {
	_, err := New(context.Background(), &config.Module{Type: "basemodel", Name: "FPN", Hyperparameters: []hyperparam.Axis{
		{Name: "lr", Values: []any{0.1}},
		{Name: "lr", Values: []any{0.2}},
	}}, Deps{})
	require.ErrorIs(t, err, hyperparam.ErrDuplicateAxis)
}

func TestNewValidTypesResolveToCallable(t *testing.T) {
	for _, ct := range capability.All() {
		t.Run(string(ct), func(t *testing.T) {
			d, err := New(context.Background(), &config.Module{Type: string(ct), Name: "X"}, Deps{})
			require.NoError(t, err)
			fn, err := d.Func(string(ct))
			require.NoError(t, err)
			assert.NotNil(t, fn)
		})
	}
}

func TestHyperparameterSets(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yaml")
	second := filepath.Join(dir, "second.yaml")
	require.NoError(t, os.WriteFile(first, []byte("a: 1\nb: 2\n"), 0600))
	require.NoError(t, os.WriteFile(second, []byte("b: 3\nc: 4\n"), 0600))

	d, err := New(context.Background(), &config.Module{
		Type: "basemodel",
		Name: "FPN",
		URL:  "fpn.lua",
		Hyperparameters: []hyperparam.Axis{
			{Name: "momentum", Values: []any{0.95, 0.5}},
			{Name: hyperparam.OtherHyperparameters, Values: []any{first, second}},
			{Name: "c", Values: []any{40}},
		},
	}, Deps{})
	require.NoError(t, err)

	require.Equal(t, 2, d.Len())
	sets := d.HyperparameterSets()
	assert.Equal(t, []map[string]any{
		{"a": 1, "b": 3, "c": 40, "momentum": 0.95},
		{"a": 1, "b": 3, "c": 40, "momentum": 0.5},
	}, sets)

	// Returned sets are copies.
	sets[0]["a"] = 100
	assert.Equal(t, 1, d.HyperparameterSets()[0]["a"])
}

func TestHyperparameterSetsWithoutAxes(t *testing.T) {
	d, err := New(context.Background(), &config.Module{Type: "hard_example_mining", Name: "IBT"}, Deps{})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{}}, d.HyperparameterSets())
}

func TestFromMapping(t *testing.T) {
	d, err := FromMapping(context.Background(), map[string]any{
		"type":  "hard_example_mining",
		"name":  "IBT",
		"extra": 1,
		"hyperparameters": []any{
			map[string]any{"threshold_img": map[string]any{"values": []any{0.9, 0.8}}},
		},
	}, Deps{})
	require.NoError(t, err)
	assert.Equal(t, capability.HardExampleMining, d.Capability())
	assert.Equal(t, "IBT", d.Name())
	assert.Equal(t, "", d.URL())
	assert.Equal(t, 2, d.Len())

	_, err = FromMapping(context.Background(), map[string]any{"type": 7}, Deps{})
	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.KeyType, cfgErr.Field)
	assert.Equal(t, capability.Names(), cfgErr.Allowed)

	// The type is reported before a malformed name.
	_, err = FromMapping(context.Background(), map[string]any{"type": "bogus", "name": 5}, Deps{})
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.KeyType, cfgErr.Field)
	assert.Equal(t, capability.Names(), cfgErr.Allowed)
}
