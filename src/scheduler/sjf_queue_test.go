package scheduler_test

import (
	"procsched/src/scheduler"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Tests if SJF serves jobs by ascending burst regardless of arrival order.
func TestSJFQueue_Order(t *testing.T) {
	q := scheduler.NewShortestFirst()
	jobs := newJobs("p5", "p2", "p8")

	q.InsertWithBurst(5, jobs[0])
	q.InsertWithBurst(2, jobs[1])
	q.InsertWithBurst(8, jobs[2])

	assert.Equal(t, []string{"p2", "p5", "p8"}, names(q.Jobs()))

	assert.Same(t, jobs[1], q.RemoveFront())
	assert.Same(t, jobs[0], q.RemoveFront())
	assert.Same(t, jobs[2], q.RemoveFront())
	assert.True(t, q.IsEmpty())
}

// Test if equal bursts keep arrival order.
func TestSJFQueue_TiesKeepArrivalOrder(t *testing.T) {
	q := scheduler.NewShortestFirst()
	jobs := newJobs("a", "b", "c", "d")

	q.InsertWithBurst(3, jobs[0])
	q.InsertWithBurst(1, jobs[1])
	q.InsertWithBurst(3, jobs[2])
	q.InsertWithBurst(1, jobs[3])

	assert.Equal(t, []string{"b", "d", "a", "c"}, names(q.Jobs()))
}

func TestSJFQueue_InsertUsesJobBurst(t *testing.T) {
	q := scheduler.NewShortestFirst()
	jobs := newJobs("long", "short")
	jobs[0].Burst = 10
	jobs[1].Burst = 1

	q.Insert(jobs[0])
	q.Insert(jobs[1])

	job, ok := q.PeekFront()
	assert.True(t, ok)
	assert.Same(t, jobs[1], job)

	job, _ = q.PeekFront()
	assert.Same(t, jobs[1], job)
}

func TestSJFQueue_RemoveFromEmpty(t *testing.T) {
	q := scheduler.NewShortestFirst()

	assert.Panics(t, func() { q.RemoveFront() })
}
