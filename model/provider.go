package model

import (
	"context"
	"fmt"

	"github.com/hupe1980/convoagent/core"
)

// Provider translates a normalized, already budget-trimmed message sequence
// plus configuration into one backend call and returns exactly the generated
// text.
//
// Implementations must translate roles and envelopes into the backend's
// conventions, inject cfg.Temperature (and any other relevant fields), and
// report failures as an error (preferably *core.ProviderError) instead of
// returning partial or empty text. Retries do not belong here.
type Provider interface {
	Call(ctx context.Context, cfg core.Config, messages []core.Message) (string, error)
}

// ProviderFunc adapts an ordinary function to the Provider interface.
type ProviderFunc func(ctx context.Context, cfg core.Config, messages []core.Message) (string, error)

// Call implements Provider.
func (f ProviderFunc) Call(ctx context.Context, cfg core.Config, messages []core.Message) (string, error) {
	return f(ctx, cfg, messages)
}

// Info contains metadata about a provider implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "gemini", "mock", ...
}

// Describer is optionally implemented by providers that can report metadata.
type Describer interface {
	Info() Info
}

// Describe returns p's Info when available, otherwise a best-effort value
// derived from cfg.
func Describe(p Provider, cfg core.Config) Info {
	if d, ok := p.(Describer); ok {
		return d.Info()
	}
	return Info{Name: cfg.ModelName, Provider: cfg.Provider}
}

// RequireContent returns a *core.ProviderError naming the first message with
// empty content. Adapters whose backend rejects empty text blocks call it
// before issuing a request.
func RequireContent(provider string, cfg core.Config, messages []core.Message) error {
	for i, m := range messages {
		if m.Content == "" {
			return core.NewProviderError(provider, cfg.ModelName, fmt.Errorf("message %d (%s) has empty content", i, m.Role))
		}
	}
	return nil
}
