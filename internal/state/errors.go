package state

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks a fatal construction-time misconfiguration.
	ErrConfiguration = errors.New("configuration error")
	// ErrSinkUnavailable is returned when samples cannot be delivered downstream.
	ErrSinkUnavailable = errors.New("sink unavailable")
)

// ConfigError describes which setting is invalid.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }
