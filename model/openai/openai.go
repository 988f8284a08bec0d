// Package openai provides an implementation of model.Provider using the OpenAI
// Chat Completions API. Roles map one to one onto the SDK's message helpers
// and the system instruction is sent natively.
package openai

import (
	"context"
	"fmt"

	"github.com/hupe1980/convoagent/core"
	"github.com/hupe1980/convoagent/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const providerName = "openai"

// APIKeyEnv names the environment variable callers conventionally source the
// key from. The adapter itself never reads the environment.
const APIKeyEnv = "OPENAI_API_KEY"

// Options configure the OpenAI adapter.
type Options struct {
	// MaxCompletionTokens caps generated tokens; zero leaves it unset.
	MaxCompletionTokens int64
	// BaseURL overrides the API endpoint (proxies, compatible servers, tests).
	BaseURL string
	// ClientOptions are appended to the SDK client construction.
	ClientOptions []option.RequestOption
}

// Provider wraps the OpenAI Chat Completions API behind model.Provider.
type Provider struct {
	client *openai.Client
	opts   Options
}

// NewProvider creates a Provider authenticated with apiKey. An empty key is a
// configuration error.
func NewProvider(apiKey string, optFns ...func(o *Options)) (*Provider, error) {
	if apiKey == "" {
		return nil, core.NewMissingCredentialError(providerName, APIKeyEnv)
	}

	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	clientOpts = append(clientOpts, opts.ClientOptions...)

	client := openai.NewClient(clientOpts...)

	return &Provider{client: &client, opts: opts}, nil
}

// NewProviderFromClient creates a Provider from an existing client.
func NewProviderFromClient(client *openai.Client, optFns ...func(o *Options)) *Provider {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{client: client, opts: opts}
}

// Call implements model.Provider.
func (p *Provider) Call(ctx context.Context, cfg core.Config, messages []core.Message) (string, error) {
	params := p.buildParams(cfg, buildMessages(messages))

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", core.NewProviderError(providerName, cfg.ModelName, fmt.Errorf("openai api error: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", core.NewProviderError(providerName, cfg.ModelName, fmt.Errorf("no choices returned"))
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return "", core.NewProviderError(providerName, cfg.ModelName,
			fmt.Errorf("empty completion (finish reason %q)", resp.Choices[0].FinishReason))
	}

	return text, nil
}

// buildMessages converts normalized messages into chat completion messages.
func buildMessages(messages []core.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case core.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// buildParams assembles the request parameters.
func (p *Provider) buildParams(cfg core.Config, messages []openai.ChatCompletionMessageParamUnion) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       cfg.ModelName,
		Temperature: openai.Float(cfg.Temperature),
	}
	if p.opts.MaxCompletionTokens > 0 {
		params.MaxCompletionTokens = openai.Int(p.opts.MaxCompletionTokens)
	}
	return params
}

// Info returns metadata describing this adapter.
func (p *Provider) Info() model.Info {
	return model.Info{Name: "chat-completions", Provider: providerName}
}
