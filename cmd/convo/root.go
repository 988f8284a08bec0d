package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hupe1980/convoagent"
	"github.com/hupe1980/convoagent/config"
	"github.com/hupe1980/convoagent/logging"
	"github.com/spf13/cobra"
)

// flags holds the global command line overrides.
type flags struct {
	cfgFile      string
	provider     string
	model        string
	temperature  float64
	maxTokens    int
	systemPrompt string
	logLevel     string
	timeout      time.Duration
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:     "convo",
		Short:   "Provider-agnostic conversational agent",
		Long:    "convo chats with OpenAI, Anthropic or Gemini models while keeping the conversation within a token budget.",
		Version: version,
		// Running convo with no subcommand starts chat mode.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, f)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&f.cfgFile, "config", "c", "", "config file path (default ~/.config/convo/config.yaml)")
	pf.StringVarP(&f.provider, "provider", "p", "", "provider: openai, anthropic or gemini")
	pf.StringVarP(&f.model, "model", "m", "", "model name")
	pf.Float64VarP(&f.temperature, "temperature", "t", 0, "sampling temperature")
	pf.IntVar(&f.maxTokens, "max-tokens", 0, "context budget in estimated tokens")
	pf.StringVarP(&f.systemPrompt, "system", "s", "", "system prompt")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.DurationVar(&f.timeout, "timeout", 0, "per-turn timeout (0 = config default)")

	rootCmd.AddCommand(newChatCmd(f))
	rootCmd.AddCommand(newAskCmd(f))

	return rootCmd
}

// loadConfig loads configuration, applying CLI flag overrides.
func loadConfig(cmd *cobra.Command, f *flags) (*config.File, error) {
	cfg, err := config.Load(f.cfgFile)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("provider") {
		cfg.Provider = f.provider
	}
	if changed("model") {
		cfg.Model = f.model
	}
	if changed("temperature") {
		cfg.Temperature = f.temperature
	}
	if changed("max-tokens") {
		cfg.MaxTokens = f.maxTokens
	}
	if changed("system") {
		cfg.SystemPrompt = f.systemPrompt
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("timeout") {
		cfg.Timeout = f.timeout
	}

	return cfg, nil
}

// newLogger builds the CLI logger; logs go to stderr so replies stay clean on stdout.
func newLogger(cfg *config.File) (*logging.ConvoLogger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	lc := logging.DefaultLoggerConfig()
	lc.Level = level
	lc.Format = cfg.LogFormat
	lc.Output = os.Stderr
	lc.Component = "cli"
	return logging.NewLogger(lc), nil
}

// setup resolves configuration and builds the facade. Configuration errors
// (including a missing API key) surface here, before any turn is attempted.
func setup(cmd *cobra.Command, f *flags) (*convoagent.Convo, *config.File, error) {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	p, err := buildProvider(cmd.Context(), cfg, os.Getenv)
	if err != nil {
		return nil, nil, err
	}

	c, err := convoagent.New(p, cfg.ModelConfig(), func(o *convoagent.Options) {
		o.SystemPrompt = cfg.SystemPrompt
		o.Logger = logger
		o.MaxCallsPerSession = cfg.MaxCalls
		o.Examples = cfg.Examples
	})
	if err != nil {
		return nil, nil, err
	}

	return c, cfg, nil
}
