// Package logging provides a minimal logging interface and adapters for convoagent.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that agents, sessions and the CLI use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - ConvoLogger (log/slog backed) with session/component context and LogLLMCall
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	a, err := agent.NewConversationalAgent(cfg, provider, func(o *agent.Options) { o.Logger = logger })
package logging
