package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/specialistvlad/algogrid/internal/capability"
)

var (
	// ErrNotFound is returned by Lookup for an unregistered pair.
	ErrNotFound = errors.New("implementation not registered")
	// ErrAlreadyRegistered is returned when a pair is registered twice.
	ErrAlreadyRegistered = errors.New("implementation already registered")
)

// SourceBuiltin is the source recorded for implementations compiled into
// the binary.
const SourceBuiltin = "builtin"

// Constructor builds one implementation instance from a hyperparameter
// mapping applied as keyword arguments.
type Constructor func(params map[string]any) (any, error)

// Module is the interface compiled-in implementation packages satisfy to be
// installed into a registry.
type Module interface {
	Register(r *Registry)
}

// Registration is a single registry entry.
type Registration struct {
	Namespace capability.Namespace
	Name      string
	Source    string
	New       Constructor
}

type key struct {
	ns   capability.Namespace
	name string
}

// Registry holds the constructors available to one process. It is safe for
// concurrent use since loading code may register from several goroutines.
type Registry struct {
	mu      sync.RWMutex
	entries map[key]*Registration
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[key]*Registration)}
}

// Install registers every module in order.
func (r *Registry) Install(mods ...Module) {
	for _, m := range mods {
		m.Register(r)
	}
}

// Register records a compiled-in constructor.
func (r *Registry) Register(ns capability.Namespace, name string, ctor Constructor) error {
	return r.RegisterFrom(SourceBuiltin, ns, name, ctor)
}

// MustRegister is Register for package-level wiring, where a collision is a
// programmer error.
func (r *Registry) MustRegister(ns capability.Namespace, name string, ctor Constructor) {
	if err := r.Register(ns, name, ctor); err != nil {
		panic(err)
	}
}

// RegisterFrom records a constructor together with the source that provided
// it. Registering an existing pair fails with ErrAlreadyRegistered and
// leaves the first registration in place.
func (r *Registry) RegisterFrom(source string, ns capability.Namespace, name string, ctor Constructor) error {
	if ns == "" || name == "" {
		return fmt.Errorf("registry: namespace and name must be non-empty (namespace=%q, name=%q)", ns, name)
	}
	if ctor == nil {
		return fmt.Errorf("registry: nil constructor for %s/%s", ns, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{ns: ns, name: name}
	if existing, ok := r.entries[k]; ok {
		return fmt.Errorf("%w: %s/%s from %s (first registered from %s)", ErrAlreadyRegistered, ns, name, source, existing.Source)
	}
	r.entries[k] = &Registration{Namespace: ns, Name: name, Source: source, New: ctor}
	return nil
}

// Lookup returns the constructor registered under (ns, name).
func (r *Registry) Lookup(ns capability.Namespace, name string) (Constructor, error) {
	reg, err := r.Get(ns, name)
	if err != nil {
		return nil, err
	}
	return reg.New, nil
}

// Get returns the full registration for (ns, name).
func (r *Registry) Get(ns capability.Namespace, name string) (*Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[key{ns: ns, name: name}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, ns, name)
	}
	return reg, nil
}

// Names lists the implementation names registered in ns, sorted.
func (r *Registry) Names(ns capability.Namespace) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for k := range r.entries {
		if k.ns == ns {
			names = append(names, k.name)
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
