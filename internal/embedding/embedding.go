package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Service converts text into a fixed-length float vector.
type Service interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// AuthError marks a credential rejection by the embedding provider. The
// retriever depends on being able to tell this apart from a generic failure:
// auth errors propagate, everything else may degrade.
type AuthError struct {
	Provider string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authentication failed: %v", e.Provider, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Keyword fallback for providers that only surface auth failures as message
// text. BXNIM0415E is the IBM IAM invalid-api-key code.
var authKeywords = []string{
	"api key",
	"authentication",
	"credentials",
	"unauthorized",
	"bxnim0415e",
	"invalidcredentials",
}

// ConfigurationError marks absent service credentials. Like AuthError it
// must propagate to the caller, never be substituted with placeholder data.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("embeddings not configured: %s is required", e.Missing)
}

// IsConfigurationError reports whether err is a configuration failure.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// Misconfigured defers a construction-time configuration failure to the
// first Embed call so it reaches the request that needed it.
type Misconfigured struct {
	Err error
}

// Embed returns the deferred configuration error.
func (m Misconfigured) Embed(ctx context.Context, text string) ([]float32, error) {
	_ = ctx
	_ = text
	return nil, m.Err
}

// IsAuthError reports whether err is an authentication-kind failure, either
// typed or recognizable from its message.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, keyword := range authKeywords {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}
