// Package receiverpipe decodes frames handed up by the radio driver: it
// validates them with wire.ParseFrame, tracks receive-side counters, and
// dispatches each class's payload run to a per-class handler in ascending
// class order.
package receiverpipe

import (
	"sync"

	"github.com/ystepanoff/pktsched/classconf"
	"github.com/ystepanoff/pktsched/clock"
	"github.com/ystepanoff/pktsched/internal/logx"
	"github.com/ystepanoff/pktsched/wire"
)

// maxPlausibleLatencyMs bounds how large a transmit-to-receive latency is
// trusted. A larger gap (clock skew, or a station that rebooted its "ms
// since boot" counter) is reported as zero rather than a nonsense value.
const maxPlausibleLatencyMs = 30_000

// Stats holds the pipeline's cumulative, externally-observable counters.
type Stats struct {
	PacketsReceived int64
	DataPackets     int64
	ErrorPackets    int64
}

// ObservedClass is the most recently parsed type/count pair for one
// class, kept so a caller can inspect what the peer is currently
// sending without waiting on a specific frame.
type ObservedClass struct {
	Type  classconf.DataType
	Count int
}

// ClassHandler decodes one class's payload run. data holds exactly
// count*classconf.Width(dataType) bytes; dataType is the type tag the
// frame declared for this class.
type ClassHandler func(class classconf.ClassID, dataType classconf.DataType, count int, data []byte)

// Pipeline is the receive-side counterpart to the scheduler's Batcher. It
// holds no knowledge of the scheduler's queues: its only job is turning
// bytes off the radio into typed, per-class payload runs.
type Pipeline struct {
	mu           sync.Mutex
	stats        Stats
	handlers     [classconf.NumClasses]ClassHandler
	lastObserved [classconf.NumClasses]ObservedClass

	clk           clock.Clock
	self          wire.MacAddr
	wantDirection wire.Direction
}

// New constructs a Pipeline that accepts frames addressed to self (or
// broadcast) travelling in wantDirection.
func New(clk clock.Clock, self wire.MacAddr, wantDirection wire.Direction) *Pipeline {
	return &Pipeline{clk: clk, self: self, wantDirection: wantDirection}
}

// SetHandler installs the decoder invoked for class's payload runs.
// Passing nil clears it; a class with no handler has its run skipped but
// still counted towards DataPackets.
func (p *Pipeline) SetHandler(class classconf.ClassID, h ClassHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[class] = h
}

// HandleFrame is the radio.Driver OnReceive callback. It parses data,
// updates counters, and dispatches each class run to its handler.
func (p *Pipeline) HandleFrame(data []byte) {
	parsed, err := wire.ParseFrame(data, p.self, p.wantDirection)

	p.mu.Lock()
	p.stats.PacketsReceived++
	if err != nil {
		p.stats.ErrorPackets++
		p.mu.Unlock()
		logx.L().Warn("receiver: dropped frame: %v", err)
		return
	}
	p.stats.DataPackets++
	for c := 0; c < classconf.NumClasses; c++ {
		p.lastObserved[c] = ObservedClass{Type: parsed.Types[c], Count: parsed.Counts[c]}
	}
	handlers := p.handlers
	p.mu.Unlock()

	if parsed.Truncated {
		logx.L().Warn("receiver: frame declared total_size did not match class runs; decoding available bytes")
	}

	latencyMs := latency(p.clk.NowMs(), parsed.TimestampMs)

	off := 0
	for c := 0; c < classconf.NumClasses; c++ {
		class := classconf.ClassID(c)
		count := parsed.Counts[c]
		width := classconf.Width(parsed.Types[c])
		length := count * width

		if off+length > len(parsed.Payload) {
			// Truncated payload: nothing more can be decoded.
			break
		}
		run := parsed.Payload[off : off+length]
		off += length

		if count == 0 {
			continue
		}
		if h := handlers[c]; h != nil {
			h(class, parsed.Types[c], count, run)
		}
	}

	logx.L().Debug("receiver: frame decoded, latency=%dms truncated=%v", latencyMs, parsed.Truncated)
}

// latency computes the transmit-to-receive delay, correcting an
// implausible or future timestamp to zero rather than propagating a
// nonsense value to callers.
func latency(nowMs, sentMs int64) int64 {
	d := nowMs - sentMs
	if d < 0 || d > maxPlausibleLatencyMs {
		return 0
	}
	return d
}

// Snapshot returns a copy of the cumulative counters.
func (p *Pipeline) Snapshot() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// LastObserved returns the type/count the peer declared for class in
// the most recently parsed frame. The zero value means nothing has
// been observed yet for that class.
func (p *Pipeline) LastObserved(class classconf.ClassID) ObservedClass {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastObserved[class]
}
