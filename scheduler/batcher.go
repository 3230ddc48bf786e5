package scheduler

import (
	"context"
	"time"

	"github.com/ystepanoff/pktsched/classconf"
	"github.com/ystepanoff/pktsched/internal/logx"
	"github.com/ystepanoff/pktsched/radio"
	"github.com/ystepanoff/pktsched/wire"
)

// CheckIntervalMs is SCHEDULER_CHECK_INTERVAL_MS: the batcher's tick period.
const CheckIntervalMs = 50

// minRemainingToContinue is the "remaining < 100" pack-stop threshold.
const minRemainingToContinue = 100

// packedItem is one packet's payload collected during the pack pass,
// still tagged with its class so the final buffer is assembled in
// ascending class order after the lock is released.
type packedItem struct {
	class   classconf.ClassID
	payload []byte
}

// Batcher runs the deadline-triggered coalescing loop against a Context
// and a radio.Driver. It holds no state of its own between ticks: all
// cross-tick state lives in the Context's queues.
type Batcher struct {
	ctx *Context
	drv radio.Driver
}

// NewBatcher wires a Batcher to its Context and radio driver.
func NewBatcher(ctx *Context, drv radio.Driver) *Batcher {
	return &Batcher{ctx: ctx, drv: drv}
}

// Run ticks the batcher every CheckIntervalMs until ctx is cancelled.
func (b *Batcher) Run(ctx context.Context) {
	ticker := time.NewTicker(CheckIntervalMs * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Tick()
		}
	}
}

// Tick performs one Idle -> Selected -> Packing -> [Emit|Discard] -> Idle
// pass. It is exported so tests can drive the batcher deterministically
// against a mock clock instead of racing a real ticker.
func (b *Batcher) Tick() {
	now := b.ctx.clk.NowMs()

	b.ctx.mu.Lock()

	triggered, minDeadline := b.selectTrigger(now)
	threshold := b.ctx.thresholdMs
	if !triggered || minDeadline > now+threshold {
		b.ctx.mu.Unlock()
		return
	}

	items, countsOut, totalSize := b.pack(now)

	b.ctx.mu.Unlock()

	if totalSize == 0 {
		return
	}

	b.emit(now, items, countsOut, totalSize)
}

// selectTrigger returns the minimum deadline across all non-empty queue
// fronts. Must be called with ctx.mu held.
func (b *Batcher) selectTrigger(now int64) (triggered bool, minDeadline int64) {
	first := true
	for c := 0; c < classconf.NumClasses; c++ {
		p, err := b.ctx.queues[c].PeekFront()
		if err != nil {
			continue
		}
		if first || p.DeadlineMs < minDeadline {
			minDeadline = p.DeadlineMs
			first = false
		}
	}
	return !first, minDeadline
}

// pack drains queues in ascending class order into the TX buffer budget,
// recording deadline misses and the processed counter (emit counts
// transmissions after a successful Send). Must be
// called with ctx.mu held; it does not allocate the final frame buffer —
// only collects payload slices already owned by dequeued packets.
func (b *Batcher) pack(now int64) (items []packedItem, countsOut [classconf.NumClasses]int, totalSize int) {
	remaining := wire.MaxTxSize

classLoop:
	for c := 0; c < classconf.NumClasses; c++ {
		q := b.ctx.queues[c]
		for {
			head, err := q.PeekFront()
			if err != nil {
				break // queue empty, move to next class
			}
			if head.Size > remaining {
				break // would not fit; leave in place for next tick
			}

			p, _ := q.DequeueFront()

			if now > p.DeadlineMs {
				b.ctx.stats.DeadlineMisses++
				b.ctx.stats.PacketsProcessed++
				logx.L().Warn("deadline miss: class=%s size=%d deadline=%d now=%d",
					classconf.ClassID(c), p.Size, p.DeadlineMs, now)
				continue
			}

			items = append(items, packedItem{class: classconf.ClassID(c), payload: p.Payload})
			remaining -= p.Size
			countsOut[c] += p.DataCount
			totalSize += p.Size
			b.ctx.stats.PacketsProcessed++

			if remaining < minRemainingToContinue {
				break classLoop
			}
		}
	}
	return items, countsOut, totalSize
}

// emit builds the frame outside the lock and hands it to the radio.
func (b *Batcher) emit(now int64, items []packedItem, countsOut [classconf.NumClasses]int, totalSize int) {
	payload := make([]byte, 0, totalSize)
	for _, it := range items {
		payload = append(payload, it.payload...)
	}

	var types [classconf.NumClasses]classconf.DataType
	for c := 0; c < classconf.NumClasses; c++ {
		types[c] = b.ctx.ClassConfig(classconf.ClassID(c)).DataType
	}

	addr := b.ctx.Addressing()
	frame := wire.BuildFrame(payload, countsOut, types, now, addr.Peer, addr.Self, addr.BSSID, addr.Direction)

	if err := b.drv.Send(frame); err != nil {
		logx.L().Warn("transmit failed: %v", err)
		return
	}

	transmissions := int64(0)
	for c := 0; c < classconf.NumClasses; c++ {
		if countsOut[c] > 0 {
			transmissions++
		}
	}

	b.ctx.mu.Lock()
	b.ctx.stats.PacketsTransmitted += transmissions
	b.ctx.mu.Unlock()
}
