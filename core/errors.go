package core

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is wrapped by ConfigurationError when a provider is
// constructed without its API key.
var ErrMissingCredential = errors.New("missing credential")

// ConfigurationError reports a required parameter or credential that is
// missing or invalid. It is raised before any chat turn is attempted.
type ConfigurationError struct {
	Provider string
	Field    string
	Reason   string
	Err      error
}

// Error implements error.
func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Provider != "" {
		msg += " (" + e.Provider + ")"
	}
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Reason != "" {
		msg += " " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// NewMissingCredentialError describes an absent API key for provider, naming
// where the caller is expected to source it from.
func NewMissingCredentialError(provider, source string) *ConfigurationError {
	return &ConfigurationError{
		Provider: provider,
		Field:    "api_key",
		Reason:   fmt.Sprintf("is required (set %s)", source),
		Err:      ErrMissingCredential,
	}
}

// ProviderError reports a failed backend call: transport failure, rejected
// credentials, rate limiting or a malformed/empty response. The core never
// retries it.
type ProviderError struct {
	Provider string
	Model    string
	Err      error
}

// Error implements error.
func (e *ProviderError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("%s provider error (model %s): %v", e.Provider, e.Model, e.Err)
	}
	return fmt.Sprintf("%s provider error: %v", e.Provider, e.Err)
}

// Unwrap exposes the backend error so callers can match SDK error types.
func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError wraps err for the given provider and model.
func NewProviderError(provider, model string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Model: model, Err: err}
}

// IsProviderError reports whether err is or wraps a *ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// IsConfigurationError reports whether err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
