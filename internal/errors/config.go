package errors

import (
	stdErrors "errors"
	"fmt"
)

// ConfigurationError represents missing or invalid settings detected at startup.
type ConfigurationError struct {
	Key     string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Message)
}

// NewConfigurationError creates a ConfigurationError for the given setting key.
func NewConfigurationError(key, message string) *ConfigurationError {
	return &ConfigurationError{Key: key, Message: message}
}

// IsConfigurationError reports whether err is a ConfigurationError (even when wrapped).
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return stdErrors.As(err, &cfgErr)
}
