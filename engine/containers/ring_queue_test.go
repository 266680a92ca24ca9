package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueFIFO(t *testing.T) {
	q := NewRingQueue[int](3)
	require.True(t, q.IsEmpty())

	require.NoError(t, q.Enqueue(1))
	require.NoError(t, q.Enqueue(2))
	require.NoError(t, q.Enqueue(3))
	assert.True(t, q.IsFull())
	assert.ErrorIs(t, q.Enqueue(4), ErrQueueFull)

	v, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	for _, want := range []int{1, 2, 3} {
		v, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
	_, err = q.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestRingQueuePushDropsOldest(t *testing.T) {
	q := NewRingQueue[int](2)
	q.Push(1)
	q.Push(2)
	q.Push(3)

	var seen []int
	q.Each(func(v int) { seen = append(seen, v) })
	assert.Equal(t, []int{2, 3}, seen)
	assert.Equal(t, 2, q.Len())
}

func TestRingQueueMinimumSize(t *testing.T) {
	q := NewRingQueue[string](0)
	q.Push("a")
	q.Push("b")
	v, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, "b", v)
}
