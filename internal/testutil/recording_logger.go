package testutil

import (
	"sync"
	"time"
)

// LogEntry is one message captured by RecordingLogger.
type LogEntry struct {
	Level string
	Msg   string
	Args  []any
}

// LLMCall is one LogLLMCall invocation captured by RecordingLogger.
type LLMCall struct {
	Model    string
	Tokens   int
	Duration time.Duration
	Success  bool
	Err      error
}

// RecordingLogger implements logging.Logger and logging.LLMCallLogger and
// keeps everything it receives for later assertions.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
	calls   []LLMCall
}

func (r *RecordingLogger) record(level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, LogEntry{Level: level, Msg: msg, Args: args})
}

// Debug records a debug message.
func (r *RecordingLogger) Debug(msg string, args ...any) { r.record("debug", msg, args) }

// Info records an info message.
func (r *RecordingLogger) Info(msg string, args ...any) { r.record("info", msg, args) }

// Warn records a warning.
func (r *RecordingLogger) Warn(msg string, args ...any) { r.record("warn", msg, args) }

// Error records an error message.
func (r *RecordingLogger) Error(msg string, args ...any) { r.record("error", msg, args) }

// LogLLMCall records a model call.
func (r *RecordingLogger) LogLLMCall(model string, tokens int, dur time.Duration, success bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, LLMCall{Model: model, Tokens: tokens, Duration: dur, Success: success, Err: err})
}

// Entries returns a copy of the captured messages.
func (r *RecordingLogger) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LogEntry(nil), r.entries...)
}

// EntriesAt returns captured messages at the given level.
func (r *RecordingLogger) EntriesAt(level string) []LogEntry {
	var out []LogEntry
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Calls returns a copy of the captured model calls.
func (r *RecordingLogger) Calls() []LLMCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LLMCall(nil), r.calls...)
}
