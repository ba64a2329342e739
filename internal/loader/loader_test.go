package loader

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/algogrid/internal/capability"
	"github.com/specialistvlad/algogrid/internal/ctxlog"
	"github.com/specialistvlad/algogrid/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fpnScript = `
register("basemodel", "FPN", function(params)
  local model = {
    momentum = params.momentum or 0.9,
    shape = params.shape,
    trained = 0,
  }

  function model:train(data)
    self.trained = self.trained + #data
    return self.trained
  end

  function model:predict(x)
    return x * self.momentum
  end

  function model:describe()
    return { momentum = self.momentum, tags = { "fpn", "detector" } }
  end

  return model
end)

register("hard_example_mining", "IBT", function(params)
  if params.threshold_img == nil then
    error("threshold_img is required")
  end
  return { threshold = params.threshold_img }
end)

register("hard_example_mining", "NotATable", function(params)
  return 42
end)
`

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func construct(t *testing.T, reg *registry.Registry, ns capability.Namespace, name string, params map[string]any) (any, error) {
	t.Helper()
	ctor, err := reg.Lookup(ns, name)
	require.NoError(t, err)
	return ctor(params)
}

func TestLoadLua(t *testing.T) {
	path := writeSource(t, t.TempDir(), "fpn.lua", fpnScript)
	reg := registry.New()
	ld := New(reg)

	require.NoError(t, ld.Load(context.Background(), path))
	assert.Equal(t, []string{"FPN"}, reg.Names(capability.NamespaceGeneral))
	assert.Equal(t, []string{"IBT", "NotATable"}, reg.Names(capability.NamespaceHEM))

	entry, err := reg.Get(capability.NamespaceGeneral, "FPN")
	require.NoError(t, err)
	assert.Equal(t, path, entry.Source)

	inst, err := construct(t, reg, capability.NamespaceGeneral, "FPN", map[string]any{
		"momentum": 0.5,
		"shape":    []any{3, 3},
	})
	require.NoError(t, err)
	obj, ok := inst.(*Object)
	require.True(t, ok)
	assert.Equal(t, "basemodel/FPN", obj.Kind())

	assert.True(t, obj.Has("predict"))
	assert.False(t, obj.Has("evaluate"))

	got, err := obj.Call("predict", 3)
	require.NoError(t, err)
	assert.Equal(t, 1.5, got)

	got, err = obj.Call("train", []any{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	got, err = obj.Call("describe")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"momentum": 0.5, "tags": []any{"fpn", "detector"}}, got)

	assert.Equal(t, []any{3, 3}, obj.Get("shape"))
	assert.Equal(t, 3, obj.Get("trained"))

	_, err = obj.Call("evaluate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no method")
}

func TestLuaInstancesAreIndependent(t *testing.T) {
	path := writeSource(t, t.TempDir(), "fpn.lua", fpnScript)
	reg := registry.New()
	require.NoError(t, New(reg).Load(context.Background(), path))

	a, err := construct(t, reg, capability.NamespaceGeneral, "FPN", map[string]any{"momentum": 0.1})
	require.NoError(t, err)
	b, err := construct(t, reg, capability.NamespaceGeneral, "FPN", nil)
	require.NoError(t, err)

	_, err = a.(*Object).Call("train", []any{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, a.(*Object).Get("trained"))
	assert.Equal(t, 0, b.(*Object).Get("trained"))
	assert.Equal(t, 0.9, b.(*Object).Get("momentum"))

	a.(*Object).Release()
	_, err = a.(*Object).Call("train", []any{})
	require.Error(t, err)
	assert.Equal(t, 0, b.(*Object).Get("trained"))
}

func TestLuaFactoryErrors(t *testing.T) {
	path := writeSource(t, t.TempDir(), "fpn.lua", fpnScript)
	reg := registry.New()
	require.NoError(t, New(reg).Load(context.Background(), path))

	_, err := construct(t, reg, capability.NamespaceHEM, "IBT", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold_img is required")

	_, err = construct(t, reg, capability.NamespaceHEM, "NotATable", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must return a table")

	_, err = construct(t, reg, capability.NamespaceHEM, "IBT", map[string]any{"threshold_img": func() {}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported value type")

	inst, err := construct(t, reg, capability.NamespaceHEM, "IBT", map[string]any{"threshold_img": 0.9})
	require.NoError(t, err)
	assert.Equal(t, 0.9, inst.(*Object).Get("threshold"))
}

func TestLoadOncePerPath(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "fpn.lua", fpnScript)
	reg := registry.New()
	ld := New(reg)

	require.NoError(t, ld.Load(context.Background(), path))
	// A relative spelling of the same file is the same source.
	rel, err := filepath.Rel(mustGetwd(t), path)
	require.NoError(t, err)
	require.NoError(t, ld.Load(context.Background(), rel))
	assert.Equal(t, 3, reg.Len())
}

func mustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	return wd
}

func TestLoadCollisionBetweenSources(t *testing.T) {
	dir := t.TempDir()
	first := writeSource(t, dir, "first.lua", `register("basemodel", "FPN", function(p) return {} end)`)
	second := writeSource(t, dir, "second.lua", `register("basemodel", "FPN", function(p) return {} end)`)
	reg := registry.New()
	ld := New(reg)

	require.NoError(t, ld.Load(context.Background(), first))
	err := ld.Load(context.Background(), second)
	require.ErrorIs(t, err, registry.ErrAlreadyRegistered)

	entry, err := reg.Get(capability.NamespaceGeneral, "FPN")
	require.NoError(t, err)
	assert.Equal(t, first, entry.Source)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name     string
		path     string
		contains string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.lua"), contains: "missing.lua"},
		{name: "unsupported extension", path: writeSource(t, dir, "model.py", "class FPN: pass"), contains: "unsupported source type"},
		{name: "lua syntax error", path: writeSource(t, dir, "bad.lua", "register(\"basemodel\", "), contains: "load lua"},
		{name: "lua runtime error", path: writeSource(t, dir, "boom.lua", `error("boom")`), contains: "boom"},
		{name: "unknown capability", path: writeSource(t, dir, "unknown.lua", `register("task_allocation", "X", function(p) return {} end)`), contains: "task_allocation"},
		{name: "factory not a function", path: writeSource(t, dir, "nofunc.lua", `register("basemodel", "X", 1)`), contains: "run lua"},
		{name: "invalid plugin", path: writeSource(t, dir, "model.so", "not an elf file"), contains: "plugin"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := New(registry.New()).Load(context.Background(), tc.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}

	err := New(registry.New()).Load(context.Background(), filepath.Join(dir, "missing.lua"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadFailureIsRemembered(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "late.lua", `error("not yet")`)
	ld := New(registry.New())

	require.Error(t, ld.Load(context.Background(), path))
	require.NoError(t, os.WriteFile(path, []byte(`register("basemodel", "Late", function(p) return {} end)`), 0600))
	require.Error(t, ld.Load(context.Background(), path))
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	pkg := filepath.Join(dir, "models")
	require.NoError(t, os.MkdirAll(filepath.Join(pkg, "mining"), 0755))
	writeSource(t, pkg, "fpn.lua", `register("basemodel", "FPN", function(p) return {} end)`)
	writeSource(t, pkg, "mining/ibt.lua", `register("hard_example_mining", "IBT", function(p) return {} end)`)
	writeSource(t, pkg, "README.md", "not a source")

	reg := registry.New()
	ld := New(reg)
	require.NoError(t, ld.Load(context.Background(), pkg))
	assert.Equal(t, []string{"FPN"}, reg.Names(capability.NamespaceGeneral))
	assert.Equal(t, []string{"IBT"}, reg.Names(capability.NamespaceHEM))

	// Files already loaded through the directory are not loaded again.
	require.NoError(t, ld.Load(context.Background(), filepath.Join(pkg, "fpn.lua")))
	require.NoError(t, ld.Load(context.Background(), pkg))
	assert.Equal(t, 2, reg.Len())

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.MkdirAll(empty, 0755))
	require.ErrorIs(t, ld.Load(context.Background(), empty), ErrUnsupportedSource)
}

func TestLoadLogsThroughContextLogger(t *testing.T) {
	path := writeSource(t, t.TempDir(), "fpn.lua", fpnScript)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})).With("run_id", "run-42")
	ctx := ctxlog.WithLogger(context.Background(), logger)

	require.NoError(t, New(registry.New()).Load(ctx, path))

	out := logs.String()
	assert.Contains(t, out, "Registered implementation.")
	assert.Contains(t, out, "name=FPN")
	assert.Contains(t, out, "namespace=hem")
	assert.Contains(t, out, "run_id=run-42")
}
