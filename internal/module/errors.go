package module

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/algogrid/internal/capability"
)

// LoadError reports that the configured source could not be loaded.
type LoadError struct {
	Capability capability.Type
	Name       string
	Path       string
	Err        error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s module loads class(name=%s) failed: loading %s: %v", e.Capability, e.Name, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ResolutionError reports that the registry lookup or the constructor failed
// after the source was loaded.
type ResolutionError struct {
	Capability capability.Type
	Name       string
	Err        error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s module loads class(name=%s) failed, error: %v", e.Capability, e.Name, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// UnsupportedCapabilityError reports a request for a capability that has no
// resolution operation.
type UnsupportedCapabilityError struct {
	Capability string
}

func (e *UnsupportedCapabilityError) Error() string {
	supported := make([]string, 0, len(resolvers))
	for _, t := range capability.All() {
		if _, ok := resolvers[t]; ok {
			supported = append(supported, string(t))
		}
	}
	return fmt.Sprintf("no such resolution operation for module type %q (supported: %s)", e.Capability, strings.Join(supported, ", "))
}
