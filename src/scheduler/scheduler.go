package scheduler

import "procsched/src/model"

// A ready queue of jobs.
//
// This interface is not thread-safe. Only the dispatcher touches a ready
// queue once scheduling has begun.
type ReadyQueue interface {
	// Insert a job according to the queue's ordering.
	//
	// Panics if the job already completed.
	Insert(job *model.Job)

	// Returns the job at the head without removing it, or false if the queue
	// is empty.
	PeekFront() (*model.Job, bool)

	// Removes and returns the job at the head.
	//
	// Panics if the queue is empty. Callers check with PeekFront or IsEmpty
	// first.
	RemoveFront() *model.Job

	Len() int
	IsEmpty() bool

	// Returns the queued jobs, head first.
	Jobs() []*model.Job
}

// The ready structure the dispatcher drives for one policy.
type RunQueue interface {
	// Queue a newly launched job.
	Insert(job *model.Job)

	// Returns the job that should run next and the tier it is dispatched
	// from, or false when every queue is empty.
	Next() (job *model.Job, tier model.Tier, ok bool)

	// Retires the job returned by Next.
	Complete() *model.Job

	// Requeues the job returned by Next after its quantum elapsed. Returns
	// the tier it came from and the tier it went to.
	//
	// Panics for policies without preemption.
	Preempt() (job *model.Job, from model.Tier, to model.Tier)

	// Number of queued jobs over all tiers.
	Len() int
}

func mustBeLive(job *model.Job) {
	if job.Done() {
		panic("completed job " + job.String() + " inserted into a ready queue")
	}
}
