package datastructures

const minCapacity = 4

// A growable circular queue.
//
// The buffer doubles whenever it is full, so Enqueue never fails.
type CircularQueue[T any] struct {
	buffer []T
	head   int
	len    int
}

// Create a new circular queue with room for capacity items before it grows.
func NewCircularQueue[T any](capacity int) CircularQueue[T] {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	return CircularQueue[T]{
		buffer: make([]T, capacity),
	}
}

func (q *CircularQueue[T]) Enqueue(item T) {
	if q.len == len(q.buffer) {
		q.grow()
	}

	tail := (q.head + q.len) % len(q.buffer)
	q.buffer[tail] = item

	q.len++
}

func (q *CircularQueue[T]) Dequeue() (val T, ok bool) {
	if q.len == 0 {
		ok = false
		return
	}

	var zero T
	val = q.buffer[q.head]
	q.buffer[q.head] = zero // avoid memory leak
	ok = true

	q.head = (q.head + 1) % len(q.buffer)
	q.len--

	return
}

// Returns the head without removing it.
func (q *CircularQueue[T]) Peek() (val T, ok bool) {
	if q.len == 0 {
		ok = false
		return
	}

	return q.buffer[q.head], true
}

// Returns the i-th item counted from the head.
func (q *CircularQueue[T]) At(i int) T {
	if i < 0 || i >= q.len {
		panic("circular queue index out of range")
	}
	return q.buffer[(q.head+i)%len(q.buffer)]
}

func (q *CircularQueue[T]) Len() int {
	return q.len
}

func (q *CircularQueue[T]) IsEmpty() bool {
	return q.len == 0
}

func (q *CircularQueue[T]) grow() {
	capacity := len(q.buffer) * 2
	if capacity < minCapacity {
		capacity = minCapacity
	}

	buffer := make([]T, capacity)
	for i := 0; i < q.len; i++ {
		buffer[i] = q.buffer[(q.head+i)%len(q.buffer)]
	}

	q.buffer = buffer
	q.head = 0
}
