// Package capability enumerates the roles a pluggable algorithm
// implementation can fulfil and the registry namespace each role is
// registered under.
package capability

import (
	"fmt"
	"strings"
)

// Type is a recognized module type as written in algorithm configuration.
type Type string

const (
	BaseModel         Type = "basemodel"
	HardExampleMining Type = "hard_example_mining"
)

// Namespace partitions the registry so that a model and a miner may share
// an implementation name.
type Namespace string

const (
	NamespaceGeneral Namespace = "general"
	NamespaceHEM     Namespace = "hem"
)

var all = []Type{BaseModel, HardExampleMining}

var namespaces = map[Type]Namespace{
	BaseModel:         NamespaceGeneral,
	HardExampleMining: NamespaceHEM,
}

// All returns the accepted capability types in declaration order.
func All() []Type {
	out := make([]Type, len(all))
	copy(out, all)
	return out
}

// Names returns All as plain strings, for error messages.
func Names() []string {
	out := make([]string, len(all))
	for i, t := range all {
		out[i] = string(t)
	}
	return out
}

// Parse returns the Type named by s, or an error listing the accepted values.
func Parse(s string) (Type, error) {
	t := Type(s)
	if _, ok := namespaces[t]; !ok {
		return "", fmt.Errorf("unsupported module type %q, the following types can be selected: %s", s, strings.Join(Names(), ", "))
	}
	return t, nil
}

// Valid reports whether t is a member of the enumeration.
func (t Type) Valid() bool {
	_, ok := namespaces[t]
	return ok
}

// Namespace returns the registry namespace implementations of t live in.
func (t Type) Namespace() Namespace {
	return namespaces[t]
}

func (t Type) String() string {
	return string(t)
}
