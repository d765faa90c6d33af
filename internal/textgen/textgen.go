package textgen

import (
	"context"
	"errors"
	"fmt"
)

// Client abstracts text-generation providers for response synthesis.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ConfigurationError marks absent or unusable service credentials. It must
// propagate to the caller, never be silently defaulted.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("text generation not configured: %s is required", e.Missing)
}

// IsConfigurationError reports whether err is a configuration failure.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// Misconfigured defers a construction-time configuration failure to the
// first Generate call so it reaches the request that needed it.
type Misconfigured struct {
	Err error
}

// Generate returns the deferred configuration error.
func (m Misconfigured) Generate(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", m.Err
}
