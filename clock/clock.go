// Package clock provides the monotonic millisecond time source used
// throughout the scheduler. Production code uses the real wall clock;
// tests inject a Mock so that deadlines and ticks can be driven
// deterministically instead of racing the real clock.
package clock

import (
	"sync"
	"time"
)

// Clock is a monotonic millisecond time source.
type Clock interface {
	NowMs() int64
}

// Real is a Clock backed by time.Now.
type Real struct {
	start time.Time
}

// NewReal returns a Clock whose NowMs is relative to its own construction,
// matching the embedded source's "ms since boot" monotonic counter.
func NewReal() *Real {
	return &Real{start: time.Now()}
}

func (r *Real) NowMs() int64 {
	return time.Since(r.start).Milliseconds()
}

// Mock is a manually-advanced Clock for deterministic tests.
type Mock struct {
	mu  sync.Mutex
	now int64
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) NowMs() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the mock clock forward by deltaMs.
func (m *Mock) Advance(deltaMs int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += deltaMs
}

// Set pins the mock clock to an absolute value.
func (m *Mock) Set(ms int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = ms
}
