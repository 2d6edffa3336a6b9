package datastructures

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

type sortedItem[K constraints.Ordered, T any] struct {
	value T
	key   K
}

// A queue kept in ascending key order.
//
// Insertion is stable: an item goes after every item with an equal key, so
// equal keys leave in arrival order.
type SortedQueue[K constraints.Ordered, T any] struct {
	items []sortedItem[K, T]
}

func NewSortedQueue[K constraints.Ordered, T any](
	capacity int,
) SortedQueue[K, T] {
	return SortedQueue[K, T]{
		items: make([]sortedItem[K, T], 0, capacity),
	}
}

// Inserts value before the first item whose key is greater than key.
func (q *SortedQueue[K, T]) Enqueue(value T, key K) {
	i := 0
	for i < len(q.items) && q.items[i].key <= key {
		i++
	}

	q.items = slices.Insert(q.items, i, sortedItem[K, T]{
		value: value,
		key:   key,
	})
}

func (q *SortedQueue[K, T]) Dequeue() (val T, ok bool) {
	if len(q.items) == 0 {
		ok = false
		return
	}

	val = q.items[0].value
	q.items[0] = sortedItem[K, T]{} // avoid memory leak
	q.items = q.items[1:]
	ok = true
	return
}

func (q *SortedQueue[K, T]) Peek() (val T, ok bool) {
	if len(q.items) == 0 {
		ok = false
		return
	}

	return q.items[0].value, true
}

// Returns the i-th item counted from the head.
func (q *SortedQueue[K, T]) At(i int) T {
	return q.items[i].value
}

func (q *SortedQueue[K, T]) Len() int {
	return len(q.items)
}

func (q *SortedQueue[K, T]) IsEmpty() bool {
	return len(q.items) == 0
}
