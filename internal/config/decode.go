package config

import (
	"fmt"

	"github.com/specialistvlad/algogrid/internal/capability"
	"github.com/specialistvlad/algogrid/internal/hyperparam"
)

// Recognized module keys.
const (
	KeyType            = "type"
	KeyName            = "name"
	KeyURL             = "url"
	KeyHyperparameters = "hyperparameters"
	KeyValues          = "values"
)

// DecodeModel binds a raw configuration mapping. Three layouts are accepted:
// a single module mapping, a mapping with a "modules" list, or the harness
// layout {"algorithm": {"modules": [...]}}.
func DecodeModel(raw map[string]any) (*Model, error) {
	if algo, ok := raw["algorithm"]; ok {
		algoMap, ok := algo.(map[string]any)
		if !ok {
			return nil, NewError("algorithm", algo, "must be a mapping, got %T", algo)
		}
		model, err := decodeModules(algoMap)
		if err != nil {
			return nil, withPrefix(err, "algorithm")
		}
		return model, nil
	}
	if _, ok := raw["modules"]; ok {
		return decodeModules(raw)
	}
	if _, ok := raw[KeyType]; ok {
		mod, err := DecodeModule(raw)
		if err != nil {
			return nil, err
		}
		return &Model{Modules: []*Module{mod}}, nil
	}
	return nil, NewError("modules", nil, "no module found: expected a module mapping, a \"modules\" list or an \"algorithm\" block")
}

func decodeModules(raw map[string]any) (*Model, error) {
	list, ok := raw["modules"].([]any)
	if !ok {
		return nil, NewError("modules", raw["modules"], "must be a list, got %T", raw["modules"])
	}
	model := &Model{Modules: make([]*Module, 0, len(list))}
	for i, entry := range list {
		field := fmt.Sprintf("modules[%d]", i)
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, NewError(field, entry, "must be a mapping, got %T", entry)
		}
		mod, err := DecodeModule(m)
		if err != nil {
			return nil, withPrefix(err, field)
		}
		model.Modules = append(model.Modules, mod)
	}
	return model, nil
}

// DecodeModule binds one module mapping. The type is validated first, so a
// bad type is reported before any other field. Unknown keys are ignored;
// the other recognized keys must carry values of the expected type.
func DecodeModule(raw map[string]any) (*Module, error) {
	if err := ValidateType(raw[KeyType]); err != nil {
		return nil, err
	}
	mod := &Module{Type: raw[KeyType].(string)}
	var err error

	if mod.Name, err = optionalString(raw, KeyName); err != nil {
		return nil, err
	}
	if mod.URL, err = optionalString(raw, KeyURL); err != nil {
		return nil, err
	}
	if hps, ok := raw[KeyHyperparameters]; ok && hps != nil {
		if mod.Hyperparameters, err = decodeAxes(hps); err != nil {
			return nil, err
		}
	}
	return mod, nil
}

// ValidateType checks that v is one of the capability type names. Every
// failure lists the accepted values.
func ValidateType(v any) error {
	fail := func(value any, format string, args ...any) error {
		err := NewError(KeyType, value, format, args...)
		err.Allowed = capability.Names()
		return err
	}

	switch t := v.(type) {
	case nil:
		return fail(nil, "module type must be provided and be string type")
	case string:
		if t == "" {
			return fail(t, "module type must be provided and be string type")
		}
		if !capability.Type(t).Valid() {
			return fail(t, "not support module type %q", t)
		}
		return nil
	default:
		return fail(v, "module type must be string type, got %T (%v)", v, v)
	}
}

func optionalString(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", NewError(key, v, "must be string type, got %T (%v)", v, v)
	}
	return s, nil
}

// decodeAxes binds the ordered list of single-key axis mappings:
//
//	- learning_rate:
//	    values: [0.1, 0.2]
func decodeAxes(v any) ([]hyperparam.Axis, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, NewError(KeyHyperparameters, v, "must be a list of single-key mappings, got %T", v)
	}

	axes := make([]hyperparam.Axis, 0, len(list))
	for i, entry := range list {
		field := fmt.Sprintf("%s[%d]", KeyHyperparameters, i)
		m, ok := entry.(map[string]any)
		if !ok || len(m) != 1 {
			return nil, NewError(field, entry, "must be a mapping with exactly one axis name")
		}
		for name, body := range m {
			values, err := axisValues(body)
			if err != nil {
				return nil, withPrefix(err, field+"."+name)
			}
			axes = append(axes, hyperparam.Axis{Name: name, Values: values})
		}
	}
	return axes, nil
}

func axisValues(body any) ([]any, error) {
	m, ok := body.(map[string]any)
	if !ok {
		return nil, NewError("", body, "must be a mapping with a %q list, got %T", KeyValues, body)
	}
	raw, ok := m[KeyValues]
	if !ok {
		return nil, NewError(KeyValues, nil, "must be provided")
	}
	values, ok := raw.([]any)
	if !ok {
		return nil, NewError(KeyValues, raw, "must be a list, got %T", raw)
	}
	return values, nil
}
