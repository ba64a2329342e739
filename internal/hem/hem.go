package hem

import (
	"fmt"

	"github.com/specialistvlad/algogrid/internal/capability"
	"github.com/specialistvlad/algogrid/internal/registry"
)

// Method names as written in algorithm configuration.
const (
	MethodIBT          = "IBT"
	MethodCrossEntropy = "CrossEntropy"
)

// Miner decides whether one inference result is a hard example.
type Miner interface {
	IsHard(values []float64) bool
}

// Module installs the built-in methods.
type Module struct{}

// Register implements registry.Module.
func (Module) Register(r *registry.Registry) {
	r.MustRegister(capability.NamespaceHEM, MethodIBT, registry.Typed(NewIBT))
	r.MustRegister(capability.NamespaceHEM, MethodCrossEntropy, registry.Typed(NewCrossEntropy))
}

// threshold returns *v, or def when v is unset, and checks it lies in [0, 1].
func threshold(name string, v *float64, def float64) (float64, error) {
	if v == nil {
		return def, nil
	}
	if *v < 0 || *v > 1 {
		return 0, fmt.Errorf("%s must be within [0, 1], got %v", name, *v)
	}
	return *v, nil
}

func isProbability(v float64) bool {
	return v >= 0 && v <= 1
}
