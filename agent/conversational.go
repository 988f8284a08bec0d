package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/convoagent/contextmgr"
	"github.com/hupe1980/convoagent/core"
	"github.com/hupe1980/convoagent/logging"
	"github.com/hupe1980/convoagent/model"
)

// Options configures a ConversationalAgent.
//
// Use functional options with NewConversationalAgent to override defaults.
type Options struct {
	// ID identifies the agent in logs. Defaults to a random UUID.
	ID string
	// TokenEstimator prices message content for the budget. Defaults to
	// contextmgr.DefaultTokenEstimator.
	TokenEstimator contextmgr.TokenEstimator
	// Logger receives turn diagnostics. Defaults to logging.NoOpLogger.
	Logger logging.Logger
	// TrimRetained also replaces the retained history with the trimmed
	// payload on every turn, so evicted messages are dropped for good.
	TrimRetained bool
	// MaxCalls caps provider calls over the agent's lifetime (0 = unlimited).
	// A turn refused by the cap leaves the history untouched.
	MaxCalls int
}

// ConversationalAgent owns one conversation history and drives a single
// bound Provider turn by turn.
//
// History invariants:
//   - at most one system message, always at index 0
//   - append-only (Chat, Prime) apart from SetSystemPrompt replacement, Reset and, with
//     TrimRetained, budget-driven eviction from the front of the conversation
//   - +2 messages (user, assistant) per successful Chat, +1 (user) on failure
//
// A ConversationalAgent is not safe for concurrent use. Serialise access per
// agent (see package session); distinct agents are fully independent.
type ConversationalAgent struct {
	log          logging.Logger
	id           string
	config       core.Config
	provider     model.Provider
	estimator    contextmgr.TokenEstimator
	trimRetained bool
	limiter      *core.CallLimiter
	history      []core.Message
}

// NewConversationalAgent binds cfg and p into a new agent with an empty
// history. It fails with a *core.ConfigurationError when p is nil or cfg is
// invalid.
func NewConversationalAgent(cfg core.Config, p model.Provider, optFns ...func(o *Options)) (*ConversationalAgent, error) {
	if p == nil {
		return nil, &core.ConfigurationError{Provider: cfg.Provider, Field: "provider", Reason: "must not be nil"}
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := Options{
		ID:             uuid.NewString(),
		TokenEstimator: contextmgr.DefaultTokenEstimator,
		Logger:         logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.TokenEstimator == nil {
		opts.TokenEstimator = contextmgr.DefaultTokenEstimator
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &ConversationalAgent{
		log:          opts.Logger,
		id:           opts.ID,
		config:       cfg,
		provider:     p,
		estimator:    opts.TokenEstimator,
		trimRetained: opts.TrimRetained,
		limiter:      core.NewCallLimiter(opts.MaxCalls),
		history:      []core.Message{},
	}, nil
}

// ID returns the agent identifier.
func (a *ConversationalAgent) ID() string { return a.id }

// Config returns the agent's configuration.
func (a *ConversationalAgent) Config() core.Config { return a.config }

// History returns a copy of the retained conversation.
func (a *ConversationalAgent) History() []core.Message {
	out := make([]core.Message, len(a.history))
	copy(out, a.history)
	return out
}

// Len returns the number of retained messages.
func (a *ConversationalAgent) Len() int { return len(a.history) }

// SystemPrompt returns the current system instruction, if set.
func (a *ConversationalAgent) SystemPrompt() (string, bool) {
	if len(a.history) > 0 && a.history[0].IsSystem() {
		return a.history[0].Content, true
	}
	return "", false
}

// SetTokenEstimator replaces the estimator used by later turns. A nil est
// restores the default. Must not be called concurrently with Chat.
func (a *ConversationalAgent) SetTokenEstimator(est contextmgr.TokenEstimator) {
	if est == nil {
		est = contextmgr.DefaultTokenEstimator
	}
	a.estimator = est
}

// SetSystemPrompt installs text as the system instruction at index 0,
// replacing an existing one in place rather than adding a second.
func (a *ConversationalAgent) SetSystemPrompt(text string) {
	msg := contextmgr.CreateMessage(core.RoleSystem, text)

	if len(a.history) > 0 && a.history[0].IsSystem() {
		a.history[0] = msg
		a.log.Debug("System prompt replaced", "agent_id", a.id)
		return
	}

	a.history = append([]core.Message{msg}, a.history...)
	a.log.Debug("System prompt set", "agent_id", a.id)
}

// RemainingCalls reports how many provider calls MaxCalls still allows, or
// -1 when unlimited.
func (a *ConversationalAgent) RemainingCalls() int { return a.limiter.Remaining() }

// Prime appends example turns after the system instruction, typically
// few-shot user/assistant pairs loaded from configuration. Only user and
// assistant messages are accepted; on error nothing is appended. Primed
// messages are ordinary conversation and are evicted first under budget
// pressure.
func (a *ConversationalAgent) Prime(messages ...core.Message) error {
	if len(messages) == 0 {
		return nil
	}

	for i, m := range messages {
		if _, err := core.ParseRole(string(m.Role)); err != nil {
			return fmt.Errorf("prime message %d: %w", i, err)
		}
		if m.IsSystem() {
			return fmt.Errorf("prime message %d: %w: use SetSystemPrompt for %q", i, core.ErrInvalidRole, m.Role)
		}
	}

	for _, m := range messages {
		a.history = append(a.history, contextmgr.CreateMessage(m.Role, m.Content))
	}
	a.log.Debug("History primed", "agent_id", a.id, "messages", len(messages))

	return nil
}

// Reset starts a new conversation: every conversation message is dropped, the
// system instruction is kept and the MaxCalls allowance is restored.
func (a *ConversationalAgent) Reset() {
	a.limiter.Reset()

	if prompt, ok := a.SystemPrompt(); ok {
		a.history = []core.Message{contextmgr.CreateMessage(core.RoleSystem, prompt)}
		return
	}
	a.history = []core.Message{}
}

// Chat runs one turn: record the user message, trim a copy of the history to
// the token budget, call the provider and record its reply.
//
// If the provider fails, the user message stays in the history, no reply is
// appended and the provider's error is returned unchanged, so the next turn
// resends the unanswered message as context.
//
// Once MaxCalls is exhausted Chat returns core.ErrCallLimitExceeded before
// recording anything.
func (a *ConversationalAgent) Chat(ctx context.Context, input string) (string, error) {
	if err := a.limiter.Acquire(); err != nil {
		a.log.Warn("Provider call refused", "agent_id", a.id, "error", err)
		return "", err
	}

	a.history = append(a.history, contextmgr.CreateMessage(core.RoleUser, input))

	trunc := contextmgr.TruncateHistoryWithReport(a.history, a.config.MaxTokens, a.estimator)
	if trunc.Evicted > 0 {
		a.log.Debug("History truncated for transmission",
			"agent_id", a.id,
			"evicted", trunc.Evicted,
			"sent", len(trunc.Messages),
			"tokens", trunc.Tokens,
			"limit", a.config.MaxTokens,
		)
	}
	if trunc.Degraded {
		a.log.Warn("System prompt alone exceeds token budget; sending it anyway",
			"agent_id", a.id,
			"tokens", trunc.Tokens,
			"limit", a.config.MaxTokens,
		)
	}
	if a.trimRetained {
		a.history = append([]core.Message(nil), trunc.Messages...)
	}

	start := time.Now()
	reply, err := a.provider.Call(ctx, a.config, trunc.Messages)
	a.logCall(trunc.Tokens, time.Since(start), err)
	if err != nil {
		return "", err
	}

	a.history = append(a.history, contextmgr.CreateMessage(core.RoleAssistant, reply))

	return reply, nil
}

func (a *ConversationalAgent) logCall(tokens int, dur time.Duration, err error) {
	if l, ok := a.log.(logging.LLMCallLogger); ok {
		l.LogLLMCall(a.config.ModelName, tokens, dur, err == nil, err)
		return
	}
	if err != nil {
		a.log.Error("Provider call failed", "agent_id", a.id, "model", a.config.ModelName, "duration", dur, "error", err)
		return
	}
	a.log.Debug("Provider call completed", "agent_id", a.id, "model", a.config.ModelName, "duration", dur, "tokens", tokens)
}
