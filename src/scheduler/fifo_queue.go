package scheduler

import (
	"procsched/src/model"
	"procsched/src/scheduler/datastructures"
)

const initialCapacity = 16

type FIFOQueue struct {
	queue datastructures.CircularQueue[*model.Job]
}

// Creates a new FIFO ready queue.
//
// Jobs are inserted at the tail and served from the head. Round-Robin uses the
// same queue and preempts by moving the head to the tail.
func NewFIFO() *FIFOQueue {
	return &FIFOQueue{
		queue: datastructures.NewCircularQueue[*model.Job](initialCapacity),
	}
}

func (q *FIFOQueue) Insert(job *model.Job) {
	mustBeLive(job)
	q.queue.Enqueue(job)
}

func (q *FIFOQueue) PeekFront() (*model.Job, bool) {
	return q.queue.Peek()
}

func (q *FIFOQueue) RemoveFront() *model.Job {
	job, ok := q.queue.Dequeue()
	if !ok {
		panic("remove from empty ready queue")
	}
	return job
}

func (q *FIFOQueue) Len() int {
	return q.queue.Len()
}

func (q *FIFOQueue) IsEmpty() bool {
	return q.queue.IsEmpty()
}

func (q *FIFOQueue) Jobs() []*model.Job {
	jobs := make([]*model.Job, q.queue.Len())
	for i := range jobs {
		jobs[i] = q.queue.At(i)
	}
	return jobs
}
