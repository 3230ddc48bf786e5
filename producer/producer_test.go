package producer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ystepanoff/pktsched/classconf"
	"github.com/ystepanoff/pktsched/clock"
	"github.com/ystepanoff/pktsched/scheduler"
	"github.com/ystepanoff/pktsched/wire"
)

func newTestContext(mock *clock.Mock) *scheduler.Context {
	addr := scheduler.Addressing{
		Self:      wire.MacAddr{1, 1, 1, 1, 1, 1},
		Peer:      wire.MacAddr{2, 2, 2, 2, 2, 2},
		BSSID:     wire.MacAddr{3, 3, 3, 3, 3, 3},
		Direction: wire.DirectionUplink,
	}
	return scheduler.New(mock, addr)
}

func TestSynthesizeIsDeterministicAndAdvancesCounter(t *testing.T) {
	var base uint32
	first := synthesize(classconf.DataTypeI8, 4, &base)
	assert.Equal(t, []byte{0, 1, 2, 3}, first)
	assert.EqualValues(t, 4, base)

	second := synthesize(classconf.DataTypeI8, 4, &base)
	assert.Equal(t, []byte{4, 5, 6, 7}, second)
}

func TestPeriodicDoesNotFireBeforeItsPeriodElapses(t *testing.T) {
	mock := clock.NewMock()
	ctx := newTestContext(mock)
	ctx.SetClassConfig(classconf.ClassA, classconf.Config{
		DataType:      classconf.DataTypeI32,
		PeriodMs:      1000,
		RelDeadlineMs: 1000,
		TargetCount:   4,
	})

	p := NewPeriodic(ctx)
	p.Tick() // now=0, lastFired=0: due immediately on first check
	assert.Equal(t, 1, ctx.QueueLen(classconf.ClassA))

	mock.Set(500)
	p.Tick()
	assert.Equal(t, 1, ctx.QueueLen(classconf.ClassA), "must not fire again before the period elapses")

	mock.Set(1000)
	p.Tick()
	assert.Equal(t, 2, ctx.QueueLen(classconf.ClassA))
}

func TestPeriodicSkipsUnconfiguredClasses(t *testing.T) {
	mock := clock.NewMock()
	ctx := newTestContext(mock)
	// New seeds A, B and C with default periods and counts; clear them so
	// that no periodic class is configured.
	ctx.SetClassConfig(classconf.ClassA, classconf.Config{DataType: classconf.DataTypeI32, RelDeadlineMs: 1000, TargetCount: 4})
	ctx.SetClassConfig(classconf.ClassB, classconf.Config{DataType: classconf.DataTypeI32, PeriodMs: 1000, RelDeadlineMs: 1000})
	ctx.SetClassConfig(classconf.ClassC, classconf.Config{})
	p := NewPeriodic(ctx)

	p.Tick()
	for c := 0; c < classconf.NumClasses; c++ {
		assert.Equal(t, 0, ctx.QueueLen(classconf.ClassID(c)))
	}
}

func TestPeriodicSkipsRandomClass(t *testing.T) {
	mock := clock.NewMock()
	ctx := newTestContext(mock)
	ctx.SetClassConfig(classconf.ClassRandom, classconf.Config{
		DataType:      classconf.DataTypeI8,
		PeriodMs:      1000,
		RelDeadlineMs: 1000,
		TargetCount:   1,
	})

	p := NewPeriodic(ctx)
	p.Tick()
	assert.Equal(t, 0, ctx.QueueLen(classconf.ClassRandom), "class Random is driven by the Random producer, not Periodic")
}

func TestRandomConfigValidateCoercesInvertedInterval(t *testing.T) {
	cfg := RandomConfig{MinIntervalMs: 500, MaxIntervalMs: 200}
	cfg.Validate()
	assert.EqualValues(t, 500, cfg.MinIntervalMs)
	assert.EqualValues(t, 1500, cfg.MaxIntervalMs)

	same := RandomConfig{MinIntervalMs: 500, MaxIntervalMs: 500}
	same.Validate()
	assert.EqualValues(t, 1500, same.MaxIntervalMs)
}

func TestRandomFiresWithinConfiguredIntervalBounds(t *testing.T) {
	mock := clock.NewMock()
	ctx := newTestContext(mock)
	r := NewRandom(ctx, RandomConfig{
		Enabled:       true,
		MinIntervalMs: 100,
		MaxIntervalMs: 200,
		ElementCount:  2,
		DataType:      classconf.DataTypeI8,
	})

	mock.Set(200) // certainly past the longest possible first interval
	r.Tick()
	assert.Equal(t, 1, ctx.QueueLen(classconf.ClassRandom))
}

func TestRandomDisabledNeverFires(t *testing.T) {
	mock := clock.NewMock()
	ctx := newTestContext(mock)
	r := NewRandom(ctx, RandomConfig{
		Enabled:       false,
		MinIntervalMs: 100,
		MaxIntervalMs: 200,
		ElementCount:  2,
		DataType:      classconf.DataTypeI8,
	})

	mock.Set(10_000)
	r.Tick()
	assert.Equal(t, 0, ctx.QueueLen(classconf.ClassRandom))
}

// TestRandomBurstModeUsesFixedInterval drives the S5 scenario: once in
// burst mode, every inter-arrival equals BurstIntervalMs exactly, with no
// sampling jitter.
func TestRandomBurstModeUsesFixedInterval(t *testing.T) {
	mock := clock.NewMock()
	ctx := newTestContext(mock)
	r := NewRandom(ctx, RandomConfig{
		Enabled:         true,
		MinIntervalMs:   500,
		MaxIntervalMs:   1500,
		BurstEnabled:    true,
		BurstPeriodMs:   2000,
		BurstIntervalMs: 100,
		ElementCount:    1,
		DataType:        classconf.DataTypeI8,
	})

	// Force burst mode directly rather than waiting out BurstPeriodMs.
	r.mu.Lock()
	r.mode = ModeBurst
	r.modeTransition = 0
	r.nextFireMs = 0
	r.mu.Unlock()

	fires := 0
	for ts := int64(0); ts <= 500; ts += 100 {
		mock.Set(ts)
		before := ctx.QueueLen(classconf.ClassRandom)
		r.Tick()
		if ctx.QueueLen(classconf.ClassRandom) > before {
			fires++
		}
	}
	assert.Equal(t, 5, fires, "burst mode must fire exactly every BurstIntervalMs")
}

func TestRandomModeTransitionsBurstThenBackToNormal(t *testing.T) {
	mock := clock.NewMock()
	ctx := newTestContext(mock)
	r := NewRandom(ctx, RandomConfig{
		Enabled:         true,
		MinIntervalMs:   100,
		MaxIntervalMs:   200,
		BurstEnabled:    true,
		BurstPeriodMs:   1000,
		BurstIntervalMs: 50,
		ElementCount:    1,
		DataType:        classconf.DataTypeI8,
	})

	require.Equal(t, ModeNormal, r.Mode())

	mock.Set(1000)
	r.Tick()
	assert.Equal(t, ModeBurst, r.Mode(), "burst period elapsed in normal mode must enter burst")

	mock.Set(1000 + burstWindowMs)
	r.Tick()
	assert.Equal(t, ModeNormal, r.Mode(), "fixed burst window elapsed must resume normal mode")
}
