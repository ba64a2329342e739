package hyperparam

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/algogrid/internal/ctxlog"
)

// OtherHyperparameters is the reserved axis name whose values are override
// file paths.
const OtherHyperparameters = "other_hyperparameters"

var (
	// ErrDuplicateAxis is returned when an axis name is declared twice.
	ErrDuplicateAxis = errors.New("duplicate hyperparameter axis")
	// ErrInvalidAxis is returned for an axis without a name.
	ErrInvalidAxis = errors.New("invalid hyperparameter axis")
	// ErrOverrideFile is returned when an override file is missing, is not
	// referenced by a string path, or cannot be parsed as a mapping.
	ErrOverrideFile = errors.New("invalid other hyperparameters file")
)

// Axis is a named hyperparameter dimension with its candidate values.
type Axis struct {
	Name   string
	Values []any
}

// FileReader is the filesystem collaborator used to resolve override files.
type FileReader interface {
	IsLocalFile(path string) bool
	ReadMapping(path string) (map[string]any, error)
}

// Expand returns one merged hyperparameter mapping per combination of the
// non-reserved axes. With no axes declared the result is the base mapping
// alone; an axis with no candidate values yields no combinations at all.
func Expand(ctx context.Context, axes []Axis, files FileReader) ([]map[string]any, error) {
	logger := ctxlog.FromContext(ctx)

	var (
		base     = map[string]any{}
		combined []Axis
		seen     = make(map[string]struct{}, len(axes))
	)
	for _, axis := range axes {
		if axis.Name == "" {
			return nil, fmt.Errorf("%w: axis name must be non-empty", ErrInvalidAxis)
		}
		if _, dup := seen[axis.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAxis, axis.Name)
		}
		seen[axis.Name] = struct{}{}

		if axis.Name == OtherHyperparameters {
			b, err := LoadBase(axis.Values, files)
			if err != nil {
				return nil, err
			}
			base = b
			continue
		}
		combined = append(combined, axis)
	}

	combinations := Product(combined)
	out := make([]map[string]any, 0, len(combinations))
	for _, combo := range combinations {
		hp := Clone(base)
		for k, v := range combo {
			hp[k] = cloneValue(v)
		}
		out = append(out, hp)
	}

	logger.Debug("Expanded hyperparameters.", "axes", len(combined), "base_keys", len(base), "combinations", len(out))
	return out, nil
}

// LoadBase reads every override file in order and merges them into one
// mapping; later files overwrite earlier ones on key collision.
func LoadBase(paths []any, files FileReader) (map[string]any, error) {
	base := map[string]any{}
	for _, p := range paths {
		path, ok := p.(string)
		if !ok {
			return nil, fmt.Errorf("%w: path must be a string, got %T (%v)", ErrOverrideFile, p, p)
		}
		if !files.IsLocalFile(path) {
			return nil, fmt.Errorf("%w: not found other hyperparameters config file (%s) in local", ErrOverrideFile, path)
		}
		m, err := files.ReadMapping(path)
		if err != nil {
			return nil, fmt.Errorf("%w: other hyperparameters config file (%s) is invalid: %w", ErrOverrideFile, path, err)
		}
		for k, v := range m {
			base[k] = v
		}
	}
	return base, nil
}

// Product computes the cartesian product of axes. The first axis varies
// slowest. Zero axes yield a single empty combination.
func Product(axes []Axis) []map[string]any {
	result := []map[string]any{{}}
	for _, axis := range axes {
		next := make([]map[string]any, 0, len(result)*len(axis.Values))
		for _, partial := range result {
			for _, v := range axis.Values {
				combo := make(map[string]any, len(partial)+1)
				for k, pv := range partial {
					combo[k] = cloneValue(pv)
				}
				combo[axis.Name] = cloneValue(v)
				next = append(next, combo)
			}
		}
		result = next
	}
	return result
}
