package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueDequeueFIFO(t *testing.T) {
	q := New()
	for i := 0; i < 5; i++ {
		require.NoError(t, q.EnqueueBack(Packet{ClassID: 0, DeadlineMs: int64(i)}))
	}
	assert.Equal(t, 5, q.Len())

	for i := 0; i < 5; i++ {
		p, err := q.DequeueFront()
		require.NoError(t, err)
		assert.Equal(t, int64(i), p.DeadlineMs)
	}
	assert.True(t, q.Empty())
}

func TestEnqueueBackFullRejected(t *testing.T) {
	q := New()
	for i := 0; i < Capacity; i++ {
		require.NoError(t, q.EnqueueBack(Packet{}))
	}
	assert.True(t, q.Full())
	err := q.EnqueueBack(Packet{})
	assert.ErrorIs(t, err, ErrFull)
}

func TestDequeueEmptyRejected(t *testing.T) {
	q := New()
	_, err := q.DequeueFront()
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = q.PeekFront()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestEnqueueFrontPutBack(t *testing.T) {
	q := New()
	require.NoError(t, q.EnqueueBack(Packet{DeadlineMs: 1}))
	require.NoError(t, q.EnqueueBack(Packet{DeadlineMs: 2}))

	// Dequeue the head, decide it doesn't fit, put it back.
	p, err := q.DequeueFront()
	require.NoError(t, err)
	require.NoError(t, q.EnqueueFront(p))

	front, err := q.PeekFront()
	require.NoError(t, err)
	assert.Equal(t, int64(1), front.DeadlineMs)
	assert.Equal(t, 2, q.Len())
}

func TestPeekDoesNotMutate(t *testing.T) {
	q := New()
	require.NoError(t, q.EnqueueBack(Packet{Payload: []byte{1, 2, 3}}))

	peeked, err := q.PeekFront()
	require.NoError(t, err)
	peeked.Payload[0] = 0xFF

	again, err := q.PeekFront()
	require.NoError(t, err)
	assert.Equal(t, byte(1), again.Payload[0], "peek must return a snapshot, not shared storage")
}

func TestQueueNeverExceedsCapacity(t *testing.T) {
	q := New()
	accepted := 0
	for i := 0; i < Capacity*2; i++ {
		if err := q.EnqueueBack(Packet{}); err == nil {
			accepted++
		}
	}
	assert.Equal(t, Capacity, accepted)
	assert.LessOrEqual(t, q.Len(), Capacity)
}
