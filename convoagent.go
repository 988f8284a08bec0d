// Package convoagent provides a high-level facade over the conversational
// agent, the provider abstraction and the session store. Most applications
// interact with this package by:
//  1. Building a model.Provider (openai, anthropic, gemini or a custom one)
//  2. Creating a Convo via New() with a core.Config and an optional system prompt
//  3. Opening sessions (NewSession) and calling Chat once per user turn
//
// Every session gets its own ConversationalAgent with its own history; the
// provider and configuration are shared. All defaults are in-memory and safe
// for local development and testing.
package convoagent

import (
	"context"
	"fmt"

	"github.com/hupe1980/convoagent/agent"
	"github.com/hupe1980/convoagent/contextmgr"
	"github.com/hupe1980/convoagent/core"
	"github.com/hupe1980/convoagent/logging"
	"github.com/hupe1980/convoagent/model"
	"github.com/hupe1980/convoagent/session"
)

// Options configures the Convo instance.
type Options struct {
	// SystemPrompt is installed on every new session when non-empty.
	SystemPrompt string

	// Examples are few-shot user/assistant turns primed into every new
	// session after the system prompt, and again after ResetSession.
	Examples []core.Message

	// TokenEstimator overrides the default len/4 heuristic for all sessions.
	TokenEstimator contextmgr.TokenEstimator

	// TrimRetained makes agents drop evicted messages from their retained
	// history instead of only from the transmitted copy.
	TrimRetained bool

	// MaxCallsPerSession caps provider calls per session (0 = unlimited).
	MaxCallsPerSession int

	// Store (defaults to an in-memory store if not provided). A custom store
	// is responsible for building its own agents.
	Store session.Store

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Convo is the high-level facade aggregating provider, configuration and sessions.
type Convo struct {
	opts     Options
	config   core.Config
	provider model.Provider
	info     model.Info
	store    session.Store
}

// New creates a Convo. It validates cfg and provider up front so that
// configuration errors surface before the first turn.
func New(provider model.Provider, cfg core.Config, optFns ...func(o *Options)) (*Convo, error) {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, &core.ConfigurationError{Provider: cfg.Provider, Field: "provider", Reason: "must not be nil"}
	}

	for i, m := range opts.Examples {
		if m.Role != core.RoleUser && m.Role != core.RoleAssistant {
			return nil, &core.ConfigurationError{
				Provider: cfg.Provider,
				Field:    fmt.Sprintf("examples[%d].role", i),
				Reason:   "must be user or assistant",
				Err:      core.ErrInvalidRole,
			}
		}
	}

	c := &Convo{opts: opts, config: cfg, provider: provider, info: model.Describe(provider, cfg)}

	c.store = opts.Store
	if c.store == nil {
		c.store = session.NewInMemoryStore(c.newAgent)
	}

	return c, nil
}

// newAgent is the default session factory.
func (c *Convo) newAgent(sessionID string) (*agent.ConversationalAgent, error) {
	logger := c.opts.Logger
	if cl, ok := logger.(*logging.ConvoLogger); ok {
		logger = cl.WithComponent("agent").WithSession(sessionID)
	}

	a, err := agent.NewConversationalAgent(c.config, c.provider, func(o *agent.Options) {
		o.ID = sessionID
		o.TokenEstimator = c.opts.TokenEstimator
		o.Logger = logger
		o.TrimRetained = c.opts.TrimRetained
		o.MaxCalls = c.opts.MaxCallsPerSession
	})
	if err != nil {
		return nil, err
	}

	if c.opts.SystemPrompt != "" {
		a.SetSystemPrompt(c.opts.SystemPrompt)
	}
	if err := a.Prime(c.opts.Examples...); err != nil {
		return nil, err
	}

	return a, nil
}

// Config returns the configuration shared by all sessions.
func (c *Convo) Config() core.Config { return c.config }

// NewSession opens a session and returns its id.
func (c *Convo) NewSession() (string, error) {
	id, err := c.store.Create("")
	if err != nil {
		return "", err
	}
	c.opts.Logger.Info("Session opened",
		"session_id", id,
		"provider", c.info.Provider,
		"adapter", c.info.Name,
		"model", c.config.ModelName,
	)
	return id, nil
}

// Chat runs one turn in the given session.
func (c *Convo) Chat(ctx context.Context, sessionID, input string) (string, error) {
	var reply string
	err := c.store.WithSession(sessionID, func(a *agent.ConversationalAgent) error {
		var err error
		reply, err = a.Chat(ctx, input)
		return err
	})
	return reply, err
}

// SetSystemPrompt replaces the system instruction of one session.
func (c *Convo) SetSystemPrompt(sessionID, prompt string) error {
	return c.store.WithSession(sessionID, func(a *agent.ConversationalAgent) error {
		a.SetSystemPrompt(prompt)
		return nil
	})
}

// History returns a copy of a session's retained messages.
func (c *Convo) History(sessionID string) ([]core.Message, error) {
	var h []core.Message
	err := c.store.WithSession(sessionID, func(a *agent.ConversationalAgent) error {
		h = a.History()
		return nil
	})
	return h, err
}

// ResetSession starts the session over: its conversation and call allowance
// are reset, the system prompt is kept and the examples are primed again.
func (c *Convo) ResetSession(sessionID string) error {
	return c.store.WithSession(sessionID, func(a *agent.ConversationalAgent) error {
		a.Reset()
		return a.Prime(c.opts.Examples...)
	})
}

// EndSession discards a session. It reports whether the session existed.
func (c *Convo) EndSession(sessionID string) bool {
	ok := c.store.Delete(sessionID)
	if ok {
		c.opts.Logger.Info("Session closed", "session_id", sessionID)
	}
	return ok
}

// Sessions lists the open sessions.
func (c *Convo) Sessions() []session.Info {
	return c.store.List()
}
