package main

import (
	"context"
	"fmt"

	"github.com/hupe1980/convoagent/config"
	"github.com/hupe1980/convoagent/model"
	"github.com/hupe1980/convoagent/model/anthropic"
	"github.com/hupe1980/convoagent/model/gemini"
	"github.com/hupe1980/convoagent/model/openai"
)

// buildProvider creates the adapter selected by cfg, sourcing its API key
// through getenv.
func buildProvider(ctx context.Context, cfg *config.File, getenv func(string) string) (model.Provider, error) {
	name := cfg.ProviderName()
	if name == "mock" {
		return model.NewMockProvider(cfg.Model), nil
	}

	apiKey, err := cfg.APIKey(getenv)
	if err != nil {
		return nil, err
	}

	settings := cfg.Settings()

	switch name {
	case "openai":
		return openai.NewProvider(apiKey, func(o *openai.Options) {
			o.BaseURL = settings.BaseURL
			o.MaxCompletionTokens = settings.MaxOutputTokens
		})
	case "anthropic":
		return anthropic.NewProvider(apiKey, func(o *anthropic.Options) {
			o.BaseURL = settings.BaseURL
			if settings.MaxOutputTokens > 0 {
				o.MaxTokens = settings.MaxOutputTokens
			}
		})
	case "gemini":
		return gemini.NewProvider(ctx, apiKey, func(o *gemini.Options) {
			o.BaseURL = settings.BaseURL
			o.MaxOutputTokens = int32(settings.MaxOutputTokens)
			o.NativeSystemInstruction = settings.NativeSystemInstruction
		})
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: openai, anthropic, gemini, mock)", name)
	}
}
