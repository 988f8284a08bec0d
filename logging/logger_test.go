package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*ConvoLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	cfg.Output = buf
	return NewLogger(cfg), buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{"debug": LogLevelDebug, "INFO": LogLevelInfo, "": LogLevelInfo, "warning": LogLevelWarn, "error": LogLevelError}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
	assert.Equal(t, "WARN", LogLevelWarn.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestConvoLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarn)
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown", "k", "v")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["msg"])
	assert.Equal(t, "v", lines[0]["k"])
}

func TestConvoLogger_Context(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)
	l.WithComponent("agent").WithSession("s-1").WithContext("provider", "mock").Info("turn")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "agent", lines[0]["component"])
	assert.Equal(t, "s-1", lines[0]["session_id"])
	assert.Equal(t, "mock", lines[0]["provider"])
}

func TestConvoLogger_WithDoesNotLeak(t *testing.T) {
	base, buf := newBufferLogger(LogLevelDebug)
	_ = base.WithContext("k", "v")
	base.Info("plain")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	_, ok := lines[0]["k"]
	assert.False(t, ok)
}

func TestConvoLogger_LogLLMCall(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	l.LogLLMCall("gpt-4o-mini", 42, time.Millisecond, true, nil)
	l.LogLLMCall("gpt-4o-mini", 42, time.Millisecond, false, errors.New("boom"))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "LLM call completed", lines[0]["msg"])
	assert.Equal(t, float64(42), lines[0]["token_count"])
	assert.Equal(t, "LLM call failed", lines[1]["msg"])
	assert.Equal(t, "boom", lines[1]["error"])

	var _ LLMCallLogger = l
}

func TestNoOpLogger(t *testing.T) {
	var l Logger = NoOpLogger{}
	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x")
		l.Warn("x")
		l.Error("x")
	})
}
