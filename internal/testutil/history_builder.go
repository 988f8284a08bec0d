package testutil

import "github.com/hupe1980/convoagent/core"

// HistoryBuilder helps construct message histories with fluent chaining for tests.
// Example:
//
//	h := NewHistoryBuilder().System("S").User("A").Assistant("B").Build()
type HistoryBuilder struct {
	messages []core.Message
}

// NewHistoryBuilder creates an empty builder.
func NewHistoryBuilder() *HistoryBuilder { return &HistoryBuilder{} }

// System appends a system message (chainable).
func (b *HistoryBuilder) System(content string) *HistoryBuilder {
	return b.Message(core.RoleSystem, content)
}

// User appends a user message (chainable).
func (b *HistoryBuilder) User(content string) *HistoryBuilder {
	return b.Message(core.RoleUser, content)
}

// Assistant appends an assistant message (chainable).
func (b *HistoryBuilder) Assistant(content string) *HistoryBuilder {
	return b.Message(core.RoleAssistant, content)
}

// Turns appends alternating user/assistant pairs (chainable).
func (b *HistoryBuilder) Turns(pairs ...[2]string) *HistoryBuilder {
	for _, p := range pairs {
		b.User(p[0]).Assistant(p[1])
	}
	return b
}

// Message appends an arbitrary message (chainable).
func (b *HistoryBuilder) Message(role core.Role, content string) *HistoryBuilder {
	b.messages = append(b.messages, core.Message{Role: role, Content: content})
	return b
}

// Build returns a copy of the accumulated history.
func (b *HistoryBuilder) Build() []core.Message {
	return append([]core.Message{}, b.messages...)
}
