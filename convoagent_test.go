package convoagent

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/convoagent/core"
	"github.com/hupe1980/convoagent/internal/testutil"
	"github.com/hupe1980/convoagent/model"
	"github.com/hupe1980/convoagent/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConvo(t *testing.T, p model.Provider, optFns ...func(o *Options)) *Convo {
	t.Helper()
	c, err := New(p, core.NewConfig("mock", "mock-model", 0.7, 2000), optFns...)
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, core.NewConfig("mock", "m", 0, 10))
	assert.True(t, core.IsConfigurationError(err))

	_, err = New(model.NewMockProvider("m"), core.Config{ModelName: "m"})
	assert.True(t, core.IsConfigurationError(err))
}

func TestConvo_ChatFlow(t *testing.T) {
	p := model.NewMockProvider("mock-model")
	p.AddResponse("Hello", "Hi! How can I help?")
	c := newConvo(t, p, func(o *Options) { o.SystemPrompt = "You are helpful." })

	id, err := c.NewSession()
	require.NoError(t, err)

	reply, err := c.Chat(context.Background(), id, "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi! How can I help?", reply)

	h, err := c.History(id)
	require.NoError(t, err)
	assert.Equal(t, testutil.NewHistoryBuilder().
		System("You are helpful.").
		User("Hello").
		Assistant("Hi! How can I help?").
		Build(), h)
}

func TestConvo_SessionsAreIndependent(t *testing.T) {
	c := newConvo(t, model.NewMockProvider("m"))

	a, err := c.NewSession()
	require.NoError(t, err)
	b, err := c.NewSession()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = c.Chat(context.Background(), a, "only in a")
	require.NoError(t, err)

	ha, _ := c.History(a)
	hb, _ := c.History(b)
	assert.Len(t, ha, 2)
	assert.Empty(t, hb)
	assert.Len(t, c.Sessions(), 2)
}

func TestConvo_ProviderFailure(t *testing.T) {
	p := model.NewMockProvider("m")
	c := newConvo(t, p)
	id, err := c.NewSession()
	require.NoError(t, err)

	boom := errors.New("backend down")
	p.FailWith(boom)
	_, err = c.Chat(context.Background(), id, "hello")
	assert.ErrorIs(t, err, boom)

	h, _ := c.History(id)
	assert.Len(t, h, 1)
}

func TestConvo_SessionLifecycle(t *testing.T) {
	c := newConvo(t, model.NewMockProvider("m"), func(o *Options) { o.SystemPrompt = "S" })
	id, err := c.NewSession()
	require.NoError(t, err)

	require.NoError(t, c.SetSystemPrompt(id, "S2"))
	_, err = c.Chat(context.Background(), id, "x")
	require.NoError(t, err)

	require.NoError(t, c.ResetSession(id))
	h, err := c.History(id)
	require.NoError(t, err)
	assert.Equal(t, []core.Message{{Role: core.RoleSystem, Content: "S2"}}, h)

	assert.True(t, c.EndSession(id))
	assert.False(t, c.EndSession(id))

	_, err = c.Chat(context.Background(), id, "x")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestConvo_LogsSessionEvents(t *testing.T) {
	rec := &testutil.RecordingLogger{}
	c := newConvo(t, model.NewMockProvider("m"), func(o *Options) { o.Logger = rec })

	id, err := c.NewSession()
	require.NoError(t, err)
	_, err = c.Chat(context.Background(), id, "hi")
	require.NoError(t, err)

	infos := rec.EntriesAt("info")
	require.Len(t, infos, 1)
	assert.Equal(t, "Session opened", infos[0].Msg)
	assert.Subset(t, infos[0].Args, []any{"provider", "mock", "adapter", "m"})
	assert.Len(t, rec.Calls(), 1)
}

func TestConvo_LogsDescribedAdapterForPlainProvider(t *testing.T) {
	rec := &testutil.RecordingLogger{}
	plain := model.ProviderFunc(func(context.Context, core.Config, []core.Message) (string, error) { return "ok", nil })
	c := newConvo(t, plain, func(o *Options) { o.Logger = rec })

	_, err := c.NewSession()
	require.NoError(t, err)

	infos := rec.EntriesAt("info")
	require.Len(t, infos, 1)
	assert.Subset(t, infos[0].Args, []any{"provider", "mock", "adapter", "mock-model"})
}

func TestConvo_ExamplesPrimedAndRestoredOnReset(t *testing.T) {
	examples := testutil.NewHistoryBuilder().User("ping").Assistant("pong").Build()
	c := newConvo(t, model.NewMockProvider("mock-model"), func(o *Options) {
		o.SystemPrompt = "S"
		o.Examples = examples
		o.MaxCallsPerSession = 1
	})

	id, err := c.NewSession()
	require.NoError(t, err)
	_, err = c.Chat(context.Background(), id, "hi")
	require.NoError(t, err)

	require.NoError(t, c.ResetSession(id))
	h, err := c.History(id)
	require.NoError(t, err)
	assert.Equal(t, testutil.NewHistoryBuilder().System("S").User("ping").Assistant("pong").Build(), h)

	_, err = c.Chat(context.Background(), id, "again")
	assert.NoError(t, err, "reset restores the call allowance")
}

func TestNew_RejectsSystemExample(t *testing.T) {
	_, err := New(model.NewMockProvider("m"), core.NewConfig("mock", "m", 0, 10), func(o *Options) {
		o.Examples = []core.Message{{Role: core.RoleSystem, Content: "x"}}
	})
	require.Error(t, err)
	assert.True(t, core.IsConfigurationError(err))
	assert.ErrorIs(t, err, core.ErrInvalidRole)
}

func TestConvo_MaxCallsPerSession(t *testing.T) {
	c := newConvo(t, model.NewMockProvider("mock-model"), func(o *Options) { o.MaxCallsPerSession = 1 })

	a, err := c.NewSession()
	require.NoError(t, err)
	b, err := c.NewSession()
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), a, "one")
	require.NoError(t, err)
	_, err = c.Chat(context.Background(), a, "two")
	assert.ErrorIs(t, err, core.ErrCallLimitExceeded)

	_, err = c.Chat(context.Background(), b, "one")
	assert.NoError(t, err)
}
