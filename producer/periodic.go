package producer

import (
	"context"
	"time"

	"github.com/ystepanoff/pktsched/classconf"
	"github.com/ystepanoff/pktsched/internal/logx"
	"github.com/ystepanoff/pktsched/scheduler"
)

// tickIntervalMs is the periodic producer task's poll granularity. Each
// class's own PeriodMs governs how often it actually fires; this constant
// only bounds how late a fire can run past its due time.
const tickIntervalMs = 100

// Periodic drives classes A, B and C on their configured periods, pushing
// freshly synthesized samples into the scheduler's queues. Grounded on the
// teacher's heartbeat task in transmitter.go: a single ticker loop that
// checks a per-target "last fired" timestamp against the clock on every
// wakeup, rather than scheduling one timer per class.
type Periodic struct {
	ctx *scheduler.Context

	lastFiredMs [classconf.NumClasses]int64
	fired       [classconf.NumClasses]bool
	counter     [classconf.NumClasses]uint32
}

// NewPeriodic wires a Periodic producer to a scheduler Context.
func NewPeriodic(ctx *scheduler.Context) *Periodic {
	return &Periodic{ctx: ctx}
}

// Run polls every tickIntervalMs until ctx is cancelled, firing any class
// that has not fired yet or whose period has elapsed since it last fired.
func (p *Periodic) Run(ctx context.Context) {
	ticker := time.NewTicker(tickIntervalMs * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick()
		}
	}
}

// Tick checks every periodic class against the clock and fires any that
// are due. Exported so tests can drive it deterministically off a mock
// clock instead of racing a real ticker.
func (p *Periodic) Tick() {
	now := p.ctx.Clock().NowMs()

	for c := 0; c < classconf.NumClasses; c++ {
		class := classconf.ClassID(c)
		if class == classconf.ClassRandom {
			continue // the random class is driven by the Random producer
		}

		cfg := p.ctx.ClassConfig(class)
		if cfg.PeriodMs <= 0 || cfg.TargetCount <= 0 {
			continue // no period or no element count: not produced periodically
		}

		if p.fired[c] && now-p.lastFiredMs[c] < cfg.PeriodMs {
			continue
		}

		payload := synthesize(cfg.DataType, cfg.TargetCount, &p.counter[c])
		if err := p.ctx.Enqueue(class, cfg.DataType, payload, cfg.TargetCount); err != nil {
			logx.L().Warn("periodic producer: class=%s enqueue failed: %v", class, err)
		}
		p.lastFiredMs[c] = now
		p.fired[c] = true
	}
}
