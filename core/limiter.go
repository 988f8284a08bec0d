package core

import (
	"errors"
	"fmt"
	"sync"
)

// ErrCallLimitExceeded is returned once a CallLimiter has no calls left.
var ErrCallLimitExceeded = errors.New("provider call limit exceeded")

// CallLimiter caps the number of provider calls made on behalf of one
// conversation.
type CallLimiter struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewCallLimiter creates a limiter allowing max calls.
// If max == 0, unlimited calls are allowed.
func NewCallLimiter(max int) *CallLimiter {
	return &CallLimiter{max: max}
}

// Acquire reserves one call. It fails without consuming anything when the
// limit is already reached.
func (cl *CallLimiter) Acquire() error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.max > 0 && cl.count >= cl.max {
		return fmt.Errorf("%w: %d", ErrCallLimitExceeded, cl.max)
	}
	cl.count++

	return nil
}

// Count returns the number of calls acquired so far.
func (cl *CallLimiter) Count() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	return cl.count
}

// Remaining returns how many calls are left before hitting the limit.
func (cl *CallLimiter) Remaining() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.max == 0 {
		return -1 // unlimited
	}

	return cl.max - cl.count
}

// Reset sets the call counter back to zero.
func (cl *CallLimiter) Reset() {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	cl.count = 0
}
