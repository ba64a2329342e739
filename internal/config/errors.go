package config

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError reports a structural problem in module configuration.
type ConfigurationError struct {
	// Field is the path of the offending key, e.g. "type" or
	// "modules[1].hyperparameters[0]".
	Field string
	// Value is the offending value, if any.
	Value any
	// Allowed lists the accepted values for enumerated fields.
	Allowed []string
	// Reason describes the problem.
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid module config: field %q", e.Field)
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if len(e.Allowed) > 0 {
		fmt.Fprintf(&b, " (accepted values: %s)", strings.Join(e.Allowed, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewError builds a ConfigurationError for field.
func NewError(field string, value any, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// withPrefix qualifies the field of a ConfigurationError with prefix.
func withPrefix(err error, prefix string) error {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		if cfgErr.Field == "" {
			cfgErr.Field = prefix
		} else {
			cfgErr.Field = prefix + "." + cfgErr.Field
		}
	}
	return err
}
