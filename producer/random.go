package producer

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/ystepanoff/pktsched/classconf"
	"github.com/ystepanoff/pktsched/internal/logx"
	"github.com/ystepanoff/pktsched/scheduler"
)

// burstWindowMs is the fixed duration a burst episode lasts once entered.
const burstWindowMs = 5000

// randomPollIntervalMs is how often Run wakes to check whether next_fire
// has elapsed. Fine-grained enough that the coarsest configured interval
// (milliseconds) is still honoured to within a tick.
const randomPollIntervalMs = 10

// Mode is the random producer's current firing regime.
type Mode int

const (
	ModeNormal Mode = iota
	ModeBurst
)

func (m Mode) String() string {
	if m == ModeBurst {
		return "burst"
	}
	return "normal"
}

// RandomConfig configures the aperiodic producer for class Random.
type RandomConfig struct {
	Enabled bool

	MinIntervalMs int64
	MaxIntervalMs int64

	BurstEnabled  bool
	BurstPeriodMs int64 // how often a burst episode starts, in normal mode
	BurstIntervalMs int64 // inter-arrival time while inside a burst episode

	ElementCount int
	DataType     classconf.DataType
}

// Validate coerces an inverted or degenerate interval range, per the
// min_interval >= max_interval edge case: rather than reject the
// configuration outright, max is pushed 1000ms past min.
func (c *RandomConfig) Validate() {
	if c.MinIntervalMs >= c.MaxIntervalMs {
		c.MaxIntervalMs = c.MinIntervalMs + 1000
	}
}

// Random drives class Random with normal/burst inter-arrival sampling.
// It carries its own mutex because, unlike the periodic producer, it keeps
// its own configuration (RandomConfig), which SetConfig can replace while
// Run is ticking. Only the data type is copied into scheduler.Context's
// class Random config, so that Enqueue accepts the produced packets.
type Random struct {
	ctx *scheduler.Context

	mu  sync.Mutex
	cfg RandomConfig

	mode           Mode
	modeTransition int64
	nextFireMs     int64

	rng     *rand.Rand
	counter uint32
}

// NewRandom wires a Random producer to a scheduler Context with an initial
// configuration. cfg is validated (and corrected) before use.
func NewRandom(ctx *scheduler.Context, cfg RandomConfig) *Random {
	cfg.Validate()
	classCfg := ctx.ClassConfig(classconf.ClassRandom)
	classCfg.DataType = cfg.DataType
	ctx.SetClassConfig(classconf.ClassRandom, classCfg)
	now := ctx.Clock().NowMs()
	r := &Random{
		ctx:            ctx,
		cfg:            cfg,
		mode:           ModeNormal,
		modeTransition: now,
		rng:            rand.New(rand.NewSource(now)),
	}
	r.nextFireMs = now + r.sampleInterval()
	return r
}

// SetConfig replaces the producer's configuration, validating it first.
// The current mode and fire schedule are left untouched so that a config
// change mid-burst does not reset an in-progress episode.
func (r *Random) SetConfig(cfg RandomConfig) {
	cfg.Validate()
	classCfg := r.ctx.ClassConfig(classconf.ClassRandom)
	classCfg.DataType = cfg.DataType
	r.ctx.SetClassConfig(classconf.ClassRandom, classCfg)
	r.mu.Lock()
	r.cfg = cfg
	r.mu.Unlock()
}

// Config returns a copy of the current configuration.
func (r *Random) Config() RandomConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// sampleInterval draws the next inter-arrival time for the current mode.
// Must be called with r.mu held.
func (r *Random) sampleInterval() int64 {
	if r.mode == ModeBurst {
		return r.cfg.BurstIntervalMs
	}
	span := r.cfg.MaxIntervalMs - r.cfg.MinIntervalMs
	if span <= 0 {
		return r.cfg.MinIntervalMs
	}
	return r.cfg.MinIntervalMs + r.rng.Int63n(span+1)
}

// Run polls every randomPollIntervalMs until ctx is cancelled.
func (r *Random) Run(ctx context.Context) {
	ticker := time.NewTicker(randomPollIntervalMs * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Tick()
		}
	}
}

// Tick checks the mode transition and fire schedule against the clock.
// Exported so tests can drive it deterministically off a mock clock.
func (r *Random) Tick() {
	now := r.ctx.Clock().NowMs()

	r.mu.Lock()
	if !r.cfg.Enabled {
		r.mu.Unlock()
		return
	}

	r.checkModeTransition(now)

	if now < r.nextFireMs {
		r.mu.Unlock()
		return
	}

	dataType := r.cfg.DataType
	count := r.cfg.ElementCount
	r.nextFireMs = now + r.sampleInterval()
	r.mu.Unlock()

	if count <= 0 {
		return
	}

	payload := synthesize(dataType, count, &r.counter)
	if err := r.ctx.Enqueue(classconf.ClassRandom, dataType, payload, count); err != nil {
		logx.L().Warn("random producer: enqueue failed: %v", err)
	}
}

// checkModeTransition flips between normal and burst mode. Must be called
// with r.mu held.
func (r *Random) checkModeTransition(now int64) {
	switch r.mode {
	case ModeNormal:
		if r.cfg.BurstEnabled && now-r.modeTransition >= r.cfg.BurstPeriodMs {
			r.mode = ModeBurst
			r.modeTransition = now
			logx.L().Debug("random producer: entering burst mode")
		}
	case ModeBurst:
		if now-r.modeTransition >= burstWindowMs {
			r.mode = ModeNormal
			r.modeTransition = now
			logx.L().Debug("random producer: burst window elapsed, resuming normal mode")
		}
	}
}

// Mode reports the producer's current firing regime.
func (r *Random) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}
