// Package gemini provides a model.Provider for the Google Gemini API via the
// google.golang.org/genai SDK.
//
// Gemini labels model-authored turns "model" and only knows "user" and
// "model" inside the contents list. By default the adapter therefore folds the
// system instruction into the first user turn as a leading text part. Set
// Options.NativeSystemInstruction to send it through the request's
// SystemInstruction field instead.
package gemini

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hupe1980/convoagent/core"
	"github.com/hupe1980/convoagent/model"
	"google.golang.org/genai"
)

const providerName = "gemini"

// APIKeyEnv names the environment variable callers conventionally source the
// key from.
const APIKeyEnv = "GEMINI_API_KEY"

// SystemPrefix labels a system instruction folded into a user turn.
const SystemPrefix = "System instruction: "

// Options configures the Gemini adapter.
type Options struct {
	// NativeSystemInstruction sends the system message as SystemInstruction
	// instead of folding it into the first user turn.
	NativeSystemInstruction bool
	// MaxOutputTokens caps generated tokens; zero leaves it unset.
	MaxOutputTokens int32
	// BaseURL and APIVersion override the endpoint (tests, proxies).
	BaseURL    string
	APIVersion string
	HTTPClient *http.Client
}

// Provider wraps the Gemini generateContent endpoint behind model.Provider.
type Provider struct {
	client *genai.Client
	opts   Options
}

// NewProvider creates a Provider authenticated with apiKey.
func NewProvider(ctx context.Context, apiKey string, optFns ...func(o *Options)) (*Provider, error) {
	if apiKey == "" {
		return nil, core.NewMissingCredentialError(providerName, APIKeyEnv)
	}

	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    opts.BaseURL,
			APIVersion: opts.APIVersion,
		},
	})
	if err != nil {
		return nil, &core.ConfigurationError{Provider: providerName, Reason: "client construction failed", Err: err}
	}

	return &Provider{client: client, opts: opts}, nil
}

// NewProviderFromClient creates a Provider from an existing client.
func NewProviderFromClient(client *genai.Client, optFns ...func(o *Options)) *Provider {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{client: client, opts: opts}
}

// Call implements model.Provider.
func (p *Provider) Call(ctx context.Context, cfg core.Config, messages []core.Message) (string, error) {
	if err := model.RequireContent(providerName, cfg, messages); err != nil {
		return "", err
	}

	contents, system := buildContents(messages, p.opts.NativeSystemInstruction)

	temperature := float32(cfg.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		SystemInstruction: system,
	}
	if p.opts.MaxOutputTokens > 0 {
		config.MaxOutputTokens = p.opts.MaxOutputTokens
	}

	resp, err := p.client.Models.GenerateContent(ctx, cfg.ModelName, contents, config)
	if err != nil {
		return "", core.NewProviderError(providerName, cfg.ModelName, fmt.Errorf("gemini api error: %w", err))
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", core.NewProviderError(providerName, cfg.ModelName, fmt.Errorf("no candidates returned"))
	}

	text := resp.Text()
	if text == "" {
		return "", core.NewProviderError(providerName, cfg.ModelName,
			fmt.Errorf("empty response (finish reason %q)", resp.Candidates[0].FinishReason))
	}

	return text, nil
}

// buildContents translates normalized messages into Gemini contents. When
// native is false, system text is carried forward and prepended to the next
// user turn; if an assistant turn or the end of the list comes first, it is
// emitted as a standalone user turn.
func buildContents(messages []core.Message, native bool) ([]*genai.Content, *genai.Content) {
	contents := make([]*genai.Content, 0, len(messages))

	var (
		system  *genai.Content
		pending []*genai.Part
	)

	flush := func() {
		if len(pending) > 0 {
			contents = append(contents, &genai.Content{Role: string(genai.RoleUser), Parts: pending})
			pending = nil
		}
	}

	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			if native {
				if system == nil {
					system = &genai.Content{}
				}
				system.Parts = append(system.Parts, genai.NewPartFromText(m.Content))
				continue
			}
			pending = append(pending, genai.NewPartFromText(SystemPrefix+m.Content))
		case core.RoleAssistant:
			flush()
			contents = append(contents, &genai.Content{
				Role:  string(genai.RoleModel),
				Parts: []*genai.Part{genai.NewPartFromText(m.Content)},
			})
		default:
			parts := append(pending, genai.NewPartFromText(m.Content))
			pending = nil
			contents = append(contents, &genai.Content{Role: string(genai.RoleUser), Parts: parts})
		}
	}
	flush()

	return contents, system
}

// Info returns metadata describing this adapter.
func (p *Provider) Info() model.Info {
	return model.Info{Name: "generate-content", Provider: providerName}
}
