package core

// DefaultModality is applied when a Config does not name one.
const DefaultModality = "text"

// Config holds the parameters governing one model invocation. An agent copies
// it at construction; switching models means building a new agent.
type Config struct {
	// Provider is an informational tag ("openai", "anthropic", "gemini", ...).
	Provider string `json:"provider" yaml:"provider"`
	// ModelName is the backend model identifier.
	ModelName string `json:"model_name" yaml:"model"`
	// Temperature is passed through to the backend without range checks.
	Temperature float64 `json:"temperature" yaml:"temperature"`
	// MaxTokens is the context budget for the transmitted history, not a
	// generation-length cap.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
	// Modality defaults to "text".
	Modality string `json:"modality" yaml:"modality"`
}

// NewConfig builds a Config with the default modality. Options run last and
// may override any field.
func NewConfig(provider, modelName string, temperature float64, maxTokens int, optFns ...func(c *Config)) Config {
	cfg := Config{
		Provider:    provider,
		ModelName:   modelName,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Modality:    DefaultModality,
	}

	for _, fn := range optFns {
		fn(&cfg)
	}

	return cfg
}

// WithDefaults returns a copy with empty optional fields populated.
func (c Config) WithDefaults() Config {
	if c.Modality == "" {
		c.Modality = DefaultModality
	}
	return c
}

// Validate checks the fields the orchestration core depends on.
func (c Config) Validate() error {
	if c.ModelName == "" {
		return &ConfigurationError{Provider: c.Provider, Field: "model_name", Reason: "must not be empty"}
	}
	if c.MaxTokens <= 0 {
		return &ConfigurationError{Provider: c.Provider, Field: "max_tokens", Reason: "must be positive"}
	}
	return nil
}
