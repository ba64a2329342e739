package registry

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// ParamsTag is the struct tag Typed binds hyperparameter names with.
const ParamsTag = "hp"

// Typed adapts a constructor taking a params struct into a Constructor.
// Hyperparameters are bound onto P by their `hp` tag; a key that matches no
// field is an error, like an unexpected keyword argument.
func Typed[P any, T any](fn func(P) (T, error)) Constructor {
	return func(params map[string]any) (any, error) {
		var p P
		if err := Bind(params, &p); err != nil {
			return nil, err
		}
		return fn(p)
	}
}

// Bind decodes params onto target, rejecting unknown keys.
func Bind(params map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      target,
		TagName:     ParamsTag,
		ErrorUnused: true,
	})
	if err != nil {
		return fmt.Errorf("building params decoder: %w", err)
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("binding hyperparameters: %w", err)
	}
	return nil
}
