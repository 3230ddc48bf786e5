package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ystepanoff/pktsched/classconf"
	"github.com/ystepanoff/pktsched/clock"
	"github.com/ystepanoff/pktsched/radio/host"
	"github.com/ystepanoff/pktsched/wire"
)

func newTestContext(mock *clock.Mock) (*Context, *host.Driver) {
	addr := Addressing{
		Self:      wire.MacAddr{1, 1, 1, 1, 1, 1},
		Peer:      wire.MacAddr{2, 2, 2, 2, 2, 2},
		BSSID:     wire.MacAddr{3, 3, 3, 3, 3, 3},
		Direction: wire.DirectionUplink,
	}
	ctx := New(mock, addr)
	drv := host.New()
	return ctx, drv
}

func configureClass(ctx *Context, c classconf.ClassID, dt classconf.DataType, periodMs, deadlineMs int64, count int) {
	ctx.SetClassConfig(c, classconf.Config{
		DataType:      dt,
		PeriodMs:      periodMs,
		RelDeadlineMs: deadlineMs,
		TargetCount:   count,
	})
}

func TestThresholdZeroEmitsNothingWithoutDueDeadline(t *testing.T) {
	mock := clock.NewMock()
	ctx, drv := newTestContext(mock)
	configureClass(ctx, classconf.ClassA, classconf.DataTypeI32, 1000, 1000, 4)
	ctx.SetThreshold(0)

	require.NoError(t, ctx.Enqueue(classconf.ClassA, classconf.DataTypeI32, make([]byte, 16), 4))

	b := NewBatcher(ctx, drv)
	b.Tick()

	assert.Empty(t, drv.TxLog())
}

func TestOrderingIsAscendingRegardlessOfArrival(t *testing.T) {
	mock := clock.NewMock()
	ctx, drv := newTestContext(mock)
	configureClass(ctx, classconf.ClassA, classconf.DataTypeI8, 1000, 1000, 1)
	configureClass(ctx, classconf.ClassB, classconf.DataTypeI8, 1000, 1000, 1)
	configureClass(ctx, classconf.ClassC, classconf.DataTypeI8, 1000, 1000, 1)
	ctx.SetThreshold(1000)

	// Enqueue B before A.
	require.NoError(t, ctx.Enqueue(classconf.ClassB, classconf.DataTypeI8, []byte{0xBB}, 1))
	require.NoError(t, ctx.Enqueue(classconf.ClassA, classconf.DataTypeI8, []byte{0xAA}, 1))

	mock.Set(1)
	b := NewBatcher(ctx, drv)
	b.Tick()

	log := drv.TxLog()
	require.Len(t, log, 1)

	parsed, err := wire.ParseFrame(log[0], ctx.Addressing().Peer, wire.DirectionUplink)
	require.NoError(t, err)
	require.True(t, len(parsed.Payload) >= 2)
	assert.Equal(t, byte(0xAA), parsed.Payload[0], "class A run must come first regardless of arrival order")
	assert.Equal(t, byte(0xBB), parsed.Payload[1])
}

func TestMissedDeadlineNeverEmitted(t *testing.T) {
	mock := clock.NewMock()
	ctx, drv := newTestContext(mock)
	configureClass(ctx, classconf.ClassA, classconf.DataTypeI8, 1000, 100, 1)
	ctx.SetThreshold(1000)

	require.NoError(t, ctx.Enqueue(classconf.ClassA, classconf.DataTypeI8, []byte{0x01}, 1))

	mock.Set(200) // well past the 100ms relative deadline

	b := NewBatcher(ctx, drv)
	b.Tick()

	assert.Empty(t, drv.TxLog())
	snap := ctx.Snapshot()
	assert.EqualValues(t, 1, snap.DeadlineMisses)
	assert.EqualValues(t, 1, snap.PacketsProcessed)
	assert.EqualValues(t, 0, snap.PacketsTransmitted)
}

func TestPackStopsClassWhenRemainingBelow100(t *testing.T) {
	mock := clock.NewMock()
	ctx, drv := newTestContext(mock)
	// i32 packets of size 200 bytes (50 elements) so a handful exhausts
	// MaxTxSize=1400 down below the 100-byte continue threshold quickly.
	configureClass(ctx, classconf.ClassA, classconf.DataTypeI32, 1000, 1000, 50)
	configureClass(ctx, classconf.ClassB, classconf.DataTypeI32, 1000, 1000, 1)
	ctx.SetThreshold(1000)

	// 6 packets * 200 bytes = 1200, leaving 200 remaining; a 7th of 200
	// bytes would leave 0 remaining (< 100), so packing of A must stop
	// at the packet that drops remaining below 100, and B must not be
	// attempted in this pass.
	for i := 0; i < 7; i++ {
		require.NoError(t, ctx.Enqueue(classconf.ClassA, classconf.DataTypeI32, make([]byte, 200), 50))
	}
	require.NoError(t, ctx.Enqueue(classconf.ClassB, classconf.DataTypeI32, make([]byte, 4), 1))

	mock.Set(1)
	b := NewBatcher(ctx, drv)
	b.Tick()

	log := drv.TxLog()
	require.Len(t, log, 1)
	parsed, err := wire.ParseFrame(log[0], ctx.Addressing().Peer, wire.DirectionUplink)
	require.NoError(t, err)

	assert.Equal(t, 0, parsed.Counts[classconf.ClassB], "class B must not be attempted once remaining<100")
	assert.LessOrEqual(t, len(parsed.Payload), wire.MaxTxSize)
	assert.Equal(t, 1, ctx.QueueLen(classconf.ClassB), "class B packet must remain queued")
}

func TestFrameNeverExceedsMaxTxSize(t *testing.T) {
	mock := clock.NewMock()
	ctx, drv := newTestContext(mock)
	configureClass(ctx, classconf.ClassA, classconf.DataTypeI8, 1000, 1000, 1)
	ctx.SetThreshold(1000)

	for i := 0; i < queueCapacityProbe(); i++ {
		_ = ctx.Enqueue(classconf.ClassA, classconf.DataTypeI8, []byte{byte(i)}, 1)
	}

	mock.Set(1)
	b := NewBatcher(ctx, drv)
	b.Tick()

	for _, frame := range drv.TxLog() {
		parsed, err := wire.ParseFrame(frame, ctx.Addressing().Peer, wire.DirectionUplink)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(parsed.Payload), wire.MaxTxSize)
	}
}

// queueCapacityProbe avoids importing the queue package just for its
// Capacity constant in a test that only needs "more than fits in one frame".
func queueCapacityProbe() int { return 60 }

func TestTransmittedCountsNonZeroClassColumns(t *testing.T) {
	mock := clock.NewMock()
	ctx, drv := newTestContext(mock)
	configureClass(ctx, classconf.ClassA, classconf.DataTypeI8, 1000, 1000, 1)
	configureClass(ctx, classconf.ClassB, classconf.DataTypeI8, 1000, 1000, 1)
	ctx.SetThreshold(1000)

	require.NoError(t, ctx.Enqueue(classconf.ClassA, classconf.DataTypeI8, []byte{1}, 1))
	require.NoError(t, ctx.Enqueue(classconf.ClassB, classconf.DataTypeI8, []byte{2}, 1))

	mock.Set(1)
	b := NewBatcher(ctx, drv)
	b.Tick()

	snap := ctx.Snapshot()
	assert.EqualValues(t, 2, snap.PacketsTransmitted, "one transmission per non-zero class column")
}

func TestProcessedEqualsTransmittedPlusMisses(t *testing.T) {
	mock := clock.NewMock()
	ctx, drv := newTestContext(mock)
	configureClass(ctx, classconf.ClassA, classconf.DataTypeI8, 1000, 50, 1)
	ctx.SetThreshold(1000)

	require.NoError(t, ctx.Enqueue(classconf.ClassA, classconf.DataTypeI8, []byte{1}, 1)) // will miss
	mock.Set(1000)
	require.NoError(t, ctx.Enqueue(classconf.ClassA, classconf.DataTypeI8, []byte{2}, 1)) // will emit

	b := NewBatcher(ctx, drv)
	b.Tick()

	snap := ctx.Snapshot()
	emittedCount := 0
	for _, frame := range drv.TxLog() {
		parsed, err := wire.ParseFrame(frame, ctx.Addressing().Peer, wire.DirectionUplink)
		require.NoError(t, err)
		emittedCount += parsed.Counts[classconf.ClassA]
	}
	assert.EqualValues(t, snap.PacketsProcessed, int64(emittedCount)+snap.DeadlineMisses)
}
