package sde

import "errors"

// Domain errors for model validation.
var (
	// ErrInvalidConfiguration indicates a malformed horizon, step size,
	// initial state or coefficient dimension. It is reported before any
	// path is simulated.
	ErrInvalidConfiguration = errors.New("sde: invalid configuration")
)

// ConfigError wraps ErrInvalidConfiguration with the offending field.
type ConfigError struct {
	Field   string
	Message string
	Wrapped error
}

func (e *ConfigError) Error() string {
	if e.Wrapped != nil {
		return "sde: invalid " + e.Field + ": " + e.Message + ": " + e.Wrapped.Error()
	}
	return "sde: invalid " + e.Field + ": " + e.Message
}

func (e *ConfigError) Unwrap() []error {
	if e.Wrapped != nil {
		return []error{ErrInvalidConfiguration, e.Wrapped}
	}
	return []error{ErrInvalidConfiguration}
}

func configErr(field, msg string) error {
	return &ConfigError{Field: field, Message: msg}
}
