package bootnav

import (
	"errors"
	"fmt"
)

// ErrInvalidPolicy is wrapped by every ConfigError raised for an
// unrecognized timing policy.
var ErrInvalidPolicy = errors.New("invalid timing policy")

// ConfigError reports a configuration value that prevents startup.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
