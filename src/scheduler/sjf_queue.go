package scheduler

import (
	"procsched/src/model"
	"procsched/src/scheduler/datastructures"
)

type SJFQueue struct {
	queue datastructures.SortedQueue[int, *model.Job]
}

// Creates a new shortest-job-first ready queue.
//
// Jobs are kept in ascending order of their estimated burst length; jobs with
// equal bursts keep their arrival order.
func NewShortestFirst() *SJFQueue {
	return &SJFQueue{
		queue: datastructures.NewSortedQueue[int, *model.Job](initialCapacity),
	}
}

func (q *SJFQueue) Insert(job *model.Job) {
	mustBeLive(job)
	q.queue.Enqueue(job, job.Burst)
}

// Sets the job's burst length and inserts it.
func (q *SJFQueue) InsertWithBurst(burst int, job *model.Job) {
	job.Burst = burst
	q.Insert(job)
}

func (q *SJFQueue) PeekFront() (*model.Job, bool) {
	return q.queue.Peek()
}

func (q *SJFQueue) RemoveFront() *model.Job {
	job, ok := q.queue.Dequeue()
	if !ok {
		panic("remove from empty ready queue")
	}
	return job
}

func (q *SJFQueue) Len() int {
	return q.queue.Len()
}

func (q *SJFQueue) IsEmpty() bool {
	return q.queue.IsEmpty()
}

func (q *SJFQueue) Jobs() []*model.Job {
	jobs := make([]*model.Job, q.queue.Len())
	for i := range jobs {
		jobs[i] = q.queue.At(i)
	}
	return jobs
}
