package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/convoagent/core"
)

// MockProvider is a lightweight in-memory Provider useful for tests & examples.
// Replies are looked up by the content of the last user message; unknown
// prompts get "Mock response to: <prompt>".
type MockProvider struct {
	mu        sync.Mutex
	info      Info
	responses map[string]string
	err       error
	calls     [][]core.Message
}

// NewMockProvider constructs a MockProvider reporting the given name.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockProvider) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// FailWith makes every following Call return err. Pass nil to recover.
func (m *MockProvider) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns a copy of the payloads received so far.
func (m *MockProvider) Calls() [][]core.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]core.Message, len(m.calls))
	for i, c := range m.calls {
		out[i] = append([]core.Message(nil), c...)
	}
	return out
}

// Call implements Provider.
func (m *MockProvider) Call(ctx context.Context, _ core.Config, messages []core.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, append([]core.Message(nil), messages...))

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.err != nil {
		return "", m.err
	}

	var prompt string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == core.RoleUser {
			prompt = messages[i].Content
			break
		}
	}
	if prompt == "" {
		return "", core.NewProviderError("mock", m.info.Name, fmt.Errorf("no user message provided"))
	}

	if reply, ok := m.responses[prompt]; ok {
		return reply, nil
	}
	return fmt.Sprintf("Mock response to: %s", prompt), nil
}

// Info implements Describer.
func (m *MockProvider) Info() Info { return m.info }
