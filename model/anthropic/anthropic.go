// Package anthropic provides a model.Provider for the Anthropic Messages API.
// The system instruction is lifted out of the message list into the request's
// native System field.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/convoagent/core"
	"github.com/hupe1980/convoagent/model"
)

const providerName = "anthropic"

// APIKeyEnv names the environment variable callers conventionally source the
// key from.
const APIKeyEnv = "ANTHROPIC_API_KEY"

// DefaultMaxTokens is the generation cap sent when Options.MaxTokens is unset.
// The Messages API requires one; it is unrelated to core.Config.MaxTokens,
// which budgets the transmitted history.
const DefaultMaxTokens = 1024

// Options configures the Anthropic adapter.
type Options struct {
	MaxTokens     int64
	BaseURL       string
	ClientOptions []option.RequestOption
}

// Provider wraps the Anthropic Messages API behind model.Provider.
type Provider struct {
	client *anthropic.Client
	opts   Options
}

// NewProvider creates a Provider authenticated with apiKey.
func NewProvider(apiKey string, optFns ...func(o *Options)) (*Provider, error) {
	if apiKey == "" {
		return nil, core.NewMissingCredentialError(providerName, APIKeyEnv)
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	clientOpts = append(clientOpts, opts.ClientOptions...)

	client := anthropic.NewClient(clientOpts...)

	return &Provider{client: &client, opts: opts}, nil
}

// NewProviderFromClient creates a Provider from an existing client.
func NewProviderFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Provider {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{MaxTokens: DefaultMaxTokens}
}

// Call implements model.Provider.
func (p *Provider) Call(ctx context.Context, cfg core.Config, messages []core.Message) (string, error) {
	if err := model.RequireContent(providerName, cfg, messages); err != nil {
		return "", err
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(cfg.ModelName),
		Messages:    buildMessages(messages),
		MaxTokens:   p.opts.MaxTokens,
		Temperature: anthropic.Float(cfg.Temperature),
	}

	if system := extractSystem(messages); len(system) > 0 {
		params.System = system
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", core.NewProviderError(providerName, cfg.ModelName, fmt.Errorf("anthropic api error: %w", err))
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}

	if sb.Len() == 0 {
		return "", core.NewProviderError(providerName, cfg.ModelName,
			fmt.Errorf("no text content (stop reason %q)", resp.StopReason))
	}

	return sb.String(), nil
}

// buildMessages converts user/assistant messages; system messages are sent
// separately.
func buildMessages(messages []core.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			continue
		case core.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return out
}

// extractSystem collects system message blocks.
func extractSystem(messages []core.Message) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	for _, m := range messages {
		if m.Role == core.RoleSystem && m.Content != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: m.Content})
		}
	}
	return blocks
}

// Info returns metadata describing this adapter.
func (p *Provider) Info() model.Info {
	return model.Info{Name: "messages", Provider: providerName}
}
