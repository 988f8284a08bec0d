// Package config loads convoagent CLI configuration.
// Configuration source priority (highest to lowest):
//  1. Command line flags (applied by the caller)
//  2. Environment variables (CONVO_PROVIDER, CONVO_MODEL; API keys such as OPENAI_API_KEY)
//  3. Config file path specified via --config
//  4. ~/.config/convo/config.yaml
//  5. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hupe1980/convoagent/core"
	"gopkg.in/yaml.v3"
)

// KnownAPIKeyEnvs maps provider names to the environment variable holding
// their API key.
var KnownAPIKeyEnvs = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// ProviderSettings holds per-provider adapter settings.
type ProviderSettings struct {
	// APIKeyEnv overrides the environment variable the key is read from.
	APIKeyEnv string `yaml:"api_key_env"`
	// BaseURL overrides the backend endpoint.
	BaseURL string `yaml:"base_url"`
	// MaxOutputTokens caps generated tokens (0 = adapter default).
	MaxOutputTokens int64 `yaml:"max_output_tokens"`
	// NativeSystemInstruction is honoured by adapters that can either fold
	// or natively send the system prompt (gemini).
	NativeSystemInstruction bool `yaml:"native_system_instruction"`
}

// File is the complete configuration structure.
type File struct {
	Provider     string                       `yaml:"provider"`
	Model        string                       `yaml:"model"`
	Temperature  float64                      `yaml:"temperature"`
	MaxTokens    int                          `yaml:"max_tokens"`
	Modality     string                       `yaml:"modality"`
	SystemPrompt string                       `yaml:"system_prompt"`
	LogLevel     string                       `yaml:"log_level"`
	LogFormat    string                       `yaml:"log_format"`
	Timeout      time.Duration                `yaml:"timeout"`
	MaxCalls     int                          `yaml:"max_calls_per_session"`
	Examples     []core.Message               `yaml:"examples"`
	Providers    map[string]*ProviderSettings `yaml:"providers"`
}

// DefaultFile returns the built-in defaults.
func DefaultFile() *File {
	return &File{
		Provider:     "openai",
		Model:        "gpt-4o-mini",
		Temperature:  0.7,
		MaxTokens:    2000,
		Modality:     core.DefaultModality,
		SystemPrompt: "You are a helpful assistant. Answer clearly and objectively.",
		LogLevel:     "warn",
		LogFormat:    "text",
		Timeout:      60 * time.Second,
		Providers:    map[string]*ProviderSettings{},
	}
}

// DefaultPath returns ~/.config/convo/config.yaml, or "" when the home
// directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "convo", "config.yaml")
}

// Load reads configPath over the defaults and applies environment overrides.
// With an empty configPath the default location is tried and silently
// skipped when absent; an explicit path must exist.
func Load(configPath string) (*File, error) {
	cfg := DefaultFile()

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultPath()
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
			}
		case explicit || !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	applyEnvOverrides(cfg, os.Getenv)

	if cfg.Providers == nil {
		cfg.Providers = map[string]*ProviderSettings{}
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *File, getenv func(string) string) {
	if v := getenv("CONVO_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := getenv("CONVO_MODEL"); v != "" {
		cfg.Model = v
	}
}

// ProviderName returns the normalised provider name.
func (f *File) ProviderName() string {
	return strings.ToLower(strings.TrimSpace(f.Provider))
}

// Settings returns the settings for the active provider (never nil).
func (f *File) Settings() *ProviderSettings {
	if s, ok := f.Providers[f.ProviderName()]; ok && s != nil {
		return s
	}
	return &ProviderSettings{}
}

// APIKeyEnv returns the environment variable holding the active provider's key.
func (f *File) APIKeyEnv() string {
	if env := f.Settings().APIKeyEnv; env != "" {
		return env
	}
	if env, ok := KnownAPIKeyEnvs[f.ProviderName()]; ok {
		return env
	}
	return strings.ToUpper(f.ProviderName()) + "_API_KEY"
}

// APIKey looks up the active provider's key with getenv. A missing key is a
// *core.ConfigurationError.
func (f *File) APIKey(getenv func(string) string) (string, error) {
	env := f.APIKeyEnv()
	key := strings.TrimSpace(getenv(env))
	if key == "" {
		return "", core.NewMissingCredentialError(f.ProviderName(), env)
	}
	return key, nil
}

// ModelConfig converts the file into the immutable per-invocation Config.
func (f *File) ModelConfig() core.Config {
	return core.NewConfig(f.ProviderName(), f.Model, f.Temperature, f.MaxTokens, func(c *core.Config) {
		if f.Modality != "" {
			c.Modality = f.Modality
		}
	})
}
