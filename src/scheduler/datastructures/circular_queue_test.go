package datastructures_test

import (
	"procsched/src/scheduler/datastructures"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircularQueue_EnqueueAndDequeue(t *testing.T) {
	q := datastructures.NewCircularQueue[int](4)

	q.Enqueue(1)
	q.Enqueue(2)
	q.Enqueue(3)

	// { 1, 2, 3 }
	val, ok := q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, 1, val)

	// { 2, 3 }
	val, ok = q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, 2, val)

	// { 3 }
	q.Enqueue(5)

	// { 3, 5 }
	val, ok = q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, 3, val)

	// { 5 }
	val, ok = q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, 5, val)

	// { }
	_, ok = q.Dequeue()
	assert.False(t, ok)
	assert.True(t, q.IsEmpty())

	// { }
	q.Enqueue(6)

	// { 6 }
	val, ok = q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, 6, val)
}

// Test if the queue grows past its initial capacity, also when the head has
// wrapped around the buffer.
func TestCircularQueue_Grow(t *testing.T) {
	q := datastructures.NewCircularQueue[int](4)

	q.Enqueue(0)
	q.Enqueue(1)
	q.Dequeue()
	q.Dequeue()

	for i := 0; i < 100; i++ {
		q.Enqueue(i)
	}
	assert.Equal(t, 100, q.Len())
	assert.Equal(t, 42, q.At(42))

	for i := 0; i < 100; i++ {
		val, ok := q.Dequeue()
		assert.True(t, ok)
		assert.Equal(t, i, val)
	}
	assert.True(t, q.IsEmpty())
}

func TestCircularQueue_Peek(t *testing.T) {
	q := datastructures.NewCircularQueue[string](0)

	_, ok := q.Peek()
	assert.False(t, ok)

	q.Enqueue("a")
	q.Enqueue("b")

	for i := 0; i < 3; i++ {
		val, ok := q.Peek()
		assert.True(t, ok)
		assert.Equal(t, "a", val)
	}
	assert.Equal(t, 2, q.Len())
	assert.Panics(t, func() { q.At(2) })
}
