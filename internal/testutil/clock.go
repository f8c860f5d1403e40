package testutil

import (
	"sync"
	"time"
)

// FrozenClock provides a thread-safe controllable wall clock for tests.
//
// Production code takes the current instant as an explicit parameter;
// tests that drive multi-step scenarios (start, wait, stop, report)
// use a FrozenClock as their single source of "now" so every step sees
// a consistent, reproducible timeline.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FrozenClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFrozenClock creates a clock frozen at the given instant.
func NewFrozenClock(at time.Time) *FrozenClock {
	return &FrozenClock{now: at}
}

// Now returns the frozen instant without advancing it.
func (c *FrozenClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new instant.
//
// Negative d is allowed; some scenarios need a clock that appears to
// have gone backwards (suspend/resume, manual clock changes).
func (c *FrozenClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Set jumps the clock to an absolute instant. Used for test reuse
// across scenarios with different starting points.
func (c *FrozenClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = at
}
