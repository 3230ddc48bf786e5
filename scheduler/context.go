// Package scheduler owns the per-class queues, class configuration, and
// counters, and implements the deadline-triggered batcher. A *Context is
// constructed once at startup and passed by reference into every task
// goroutine, rather than kept as a package-level singleton (per the
// design notes' guidance for a systems-language rewrite).
package scheduler

import (
	"sync"

	"github.com/ystepanoff/pktsched/classconf"
	"github.com/ystepanoff/pktsched/clock"
	"github.com/ystepanoff/pktsched/queue"
	"github.com/ystepanoff/pktsched/wire"
)

// Addressing holds the fixed MAC identities the batcher and receiver
// pipeline use to build and accept frames.
type Addressing struct {
	Self      wire.MacAddr
	Peer      wire.MacAddr
	BSSID     wire.MacAddr
	Direction wire.Direction
}

// Context is the scheduler's shared, mutex-protected state: the per-class
// queues, per-class configuration, the processing horizon, and cumulative
// counters. All mutation goes through its single mutex; there is
// only ever one lock, so deadlock across scheduler tasks is structurally
// impossible.
type Context struct {
	mu sync.Mutex

	queues  [classconf.NumClasses]*queue.Queue
	configs [classconf.NumClasses]classconf.Config

	thresholdMs int64
	stats       Stats

	clk  clock.Clock
	addr Addressing
}

// defaultConfigs seeds classes A, B and C with the firmware's compiled-in
// reset defaults (DEFAULT_CLASS1_PERIOD..DEFAULT_CLASS3_COUNT in
// terminal_cmd.h) and leaves the random class inert (zero period, so the
// periodic producer skips it) until the random producer is configured on.
func defaultConfigs() [classconf.NumClasses]classconf.Config {
	return [classconf.NumClasses]classconf.Config{
		classconf.ClassA: {DataType: classconf.DataTypeI32, PeriodMs: 3000, RelDeadlineMs: 3000, TargetCount: 5},
		classconf.ClassB: {DataType: classconf.DataTypeF32, PeriodMs: 5000, RelDeadlineMs: 5000, TargetCount: 4},
		classconf.ClassC: {DataType: classconf.DataTypeI16, PeriodMs: 6000, RelDeadlineMs: 6000, TargetCount: 6},
		classconf.ClassRandom: {DataType: classconf.DataTypeI32, PeriodMs: 0, RelDeadlineMs: 1000, TargetCount: 0},
	}
}

// New constructs a Context with empty queues, the class configs from
// defaultConfigs, and a zero threshold.
func New(clk clock.Clock, addr Addressing) *Context {
	ctx := &Context{
		queues:      [classconf.NumClasses]*queue.Queue{},
		configs:     defaultConfigs(),
		thresholdMs: 0,
		clk:         clk,
		addr:        addr,
	}
	for c := range ctx.queues {
		ctx.queues[c] = queue.New()
	}
	return ctx
}

// ResetDefaults restores every class's configuration and the threshold to
// their construction-time defaults, and zeroes the counters. Queued
// packets are discarded. The class A, B and C values equal those of
// config.Default; the threshold returns to 0, not config.Default's 1000.
func (c *Context) ResetDefaults() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configs = defaultConfigs()
	c.thresholdMs = 0
	c.stats = Stats{}
	for i := range c.queues {
		c.queues[i] = queue.New()
	}
}

// Addressing returns the fixed station/peer/BSSID identity.
func (c *Context) Addressing() Addressing {
	return c.addr
}

// ClassConfig returns a copy of the current configuration for class.
func (c *Context) ClassConfig(class classconf.ClassID) classconf.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.configs[class]
}

// SetClassConfig installs cfg for class. Callers (the control surface)
// are responsible for clamping values into range first; SetClassConfig
// itself performs no validation so it can also be used to seed defaults.
func (c *Context) SetClassConfig(class classconf.ClassID, cfg classconf.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configs[class] = cfg
}

// Threshold returns the current processing horizon in milliseconds.
func (c *Context) Threshold() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.thresholdMs
}

// SetThreshold installs a new processing horizon, clamped by the caller.
func (c *Context) SetThreshold(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.thresholdMs = ms
}

// Enqueue validates and appends one packet to class's queue. dataType must
// equal the class's currently configured type; size is computed here and
// checked against wire.MaxPacketSize. The deadline is now + the class's
// relative deadline, read from the clock at enqueue time.
func (c *Context) Enqueue(class classconf.ClassID, dataType classconf.DataType, payload []byte, dataCount int) error {
	size := dataCount * classconf.Width(dataType)
	if size > wire.MaxPacketSize {
		return ErrInvalidPacket
	}
	if dataCount < 1 {
		return ErrInvalidPacket
	}

	now := c.clk.NowMs()

	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := c.configs[class]
	if dataType != cfg.DataType {
		return ErrInvalidPacket
	}

	p := queue.Packet{
		ClassID:    uint8(class),
		DataType:   uint8(dataType),
		DataCount:  dataCount,
		Size:       size,
		DeadlineMs: now + cfg.RelDeadlineMs,
		Payload:    payload,
	}
	return c.queues[class].EnqueueBack(p)
}

// QueueLen reports the current length of class's queue.
func (c *Context) QueueLen(class classconf.ClassID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queues[class].Len()
}

// Snapshot returns a copy of the cumulative counters, including current
// queue lengths per class.
func (c *Context) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	for i := range c.queues {
		s.QueueLens[i] = c.queues[i].Len()
	}
	return s
}

// Clock exposes the context's time source, for producers and the batcher.
func (c *Context) Clock() clock.Clock {
	return c.clk
}
