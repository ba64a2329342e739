package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/Shopify/go-lua"
	"github.com/specialistvlad/algogrid/internal/capability"
	"github.com/specialistvlad/algogrid/internal/ctxlog"
	"github.com/specialistvlad/algogrid/internal/registry"
)

const (
	registerFunc    = "register"
	factoriesGlobal = "__algogrid_factories"
	instancesGlobal = "__algogrid_instances"
)

// luaScript owns the interpreter state of one loaded script. The state is
// not safe for concurrent use, so every entry into it holds mu.
type luaScript struct {
	mu     sync.Mutex
	state  *lua.State
	path   string
	nextID int
}

func (l *Loader) loadLua(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running Lua source.", "path", path)

	script := &luaScript{state: lua.NewState(), path: path}
	state := script.state
	lua.OpenLibraries(state)

	state.NewTable()
	state.SetGlobal(factoriesGlobal)
	state.NewTable()
	state.SetGlobal(instancesGlobal)

	// regErr keeps the typed registry error, which does not survive the
	// trip through a Lua error.
	var regErr error
	state.PushGoFunction(func(state *lua.State) int {
		typeName := lua.CheckString(state, 1)
		name := lua.CheckString(state, 2)
		lua.CheckType(state, 3, lua.TypeFunction)

		capType, err := capability.Parse(typeName)
		if err != nil {
			lua.Errorf(state, "%s", err.Error())
			return 0
		}

		key := typeName + "/" + name
		state.Global(factoriesGlobal)
		state.PushValue(3)
		state.SetField(-2, key)
		state.Pop(1)

		if err := l.reg.RegisterFrom(path, capType.Namespace(), name, script.constructor(key)); err != nil {
			regErr = err
			lua.Errorf(state, "%s", err.Error())
		}
		logger.Debug("Registered implementation.", "namespace", capType.Namespace(), "name", name, "source", path)
		return 0
	})
	state.SetGlobal(registerFunc)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 0, 0); err != nil {
		if regErr != nil {
			return fmt.Errorf("run lua: %w", regErr)
		}
		return fmt.Errorf("run lua: %w", err)
	}
	return nil
}

// constructor returns a registry.Constructor calling the factory stored
// under key.
func (s *luaScript) constructor(key string) registry.Constructor {
	return func(params map[string]any) (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		st := s.state
		defer st.SetTop(st.Top())

		st.Global(factoriesGlobal)
		st.Field(-1, key)
		if !st.IsFunction(-1) {
			return nil, fmt.Errorf("lua factory %s not found in %s", key, s.path)
		}
		if params == nil {
			params = map[string]any{}
		}
		if err := pushValue(st, params); err != nil {
			return nil, err
		}
		if err := st.ProtectedCall(1, 1, 0); err != nil {
			return nil, fmt.Errorf("lua factory %s: %w", key, err)
		}
		if st.TypeOf(-1) != lua.TypeTable {
			return nil, fmt.Errorf("lua factory %s must return a table, got %s", key, typeName(st.TypeOf(-1)))
		}

		s.nextID++
		id := s.nextID
		st.Global(instancesGlobal)
		st.PushValue(-2)
		st.RawSetInt(-2, id)

		return &Object{script: s, id: id, kind: key}, nil
	}
}

// Object is an implementation instance constructed by a Lua factory.
type Object struct {
	script *luaScript
	id     int
	kind   string
}

// Kind returns "<type>/<name>" of the factory that built the object.
func (o *Object) Kind() string {
	return o.kind
}

// Has reports whether the instance has a method named method.
func (o *Object) Has(method string) bool {
	o.script.mu.Lock()
	defer o.script.mu.Unlock()

	st := o.script.state
	defer st.SetTop(st.Top())
	if !o.push(st) {
		return false
	}
	st.Field(-1, method)
	return st.IsFunction(-1)
}

// Call invokes method on the instance with args and returns its first
// result converted to a Go value.
func (o *Object) Call(method string, args ...any) (any, error) {
	o.script.mu.Lock()
	defer o.script.mu.Unlock()

	st := o.script.state
	defer st.SetTop(st.Top())

	if !o.push(st) {
		return nil, fmt.Errorf("%s: instance %d was released", o.kind, o.id)
	}
	st.Field(-1, method)
	if !st.IsFunction(-1) {
		return nil, fmt.Errorf("%s: no method %q", o.kind, method)
	}
	st.PushValue(-2)
	for _, arg := range args {
		if err := pushValue(st, arg); err != nil {
			return nil, fmt.Errorf("%s:%s: %w", o.kind, method, err)
		}
	}
	if err := st.ProtectedCall(len(args)+1, 1, 0); err != nil {
		return nil, fmt.Errorf("%s:%s: %w", o.kind, method, err)
	}
	return toGo(st, -1), nil
}

// Get returns a field of the instance converted to a Go value.
func (o *Object) Get(field string) any {
	o.script.mu.Lock()
	defer o.script.mu.Unlock()

	st := o.script.state
	defer st.SetTop(st.Top())
	if !o.push(st) {
		return nil
	}
	st.Field(-1, field)
	return toGo(st, -1)
}

// Release drops the interpreter's reference to the instance.
func (o *Object) Release() {
	o.script.mu.Lock()
	defer o.script.mu.Unlock()

	st := o.script.state
	defer st.SetTop(st.Top())
	st.Global(instancesGlobal)
	st.PushNil()
	st.RawSetInt(-2, o.id)
}

// push leaves the instance table on top of the stack.
func (o *Object) push(st *lua.State) bool {
	st.Global(instancesGlobal)
	st.RawGetInt(-1, o.id)
	return st.TypeOf(-1) == lua.TypeTable
}
