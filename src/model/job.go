package model

import (
	"fmt"

	"github.com/google/uuid"
)

// A job is one managed OS process plus the bookkeeping the dispatcher keeps
// for it.
type Job struct {
	ID   uuid.UUID
	Name string
	Path string
	PID  int

	// Estimated burst length. Only Shortest-Job-First looks at it.
	Burst int
	// Current tier. Only the multi-level feedback policy moves it.
	Tier Tier

	State       JobState
	Dispatches  int
	Preemptions int
}

// Creates a queued job handle for the program at path.
func NewJob(name string, path string) *Job {
	return &Job{
		ID:    uuid.New(),
		Name:  name,
		Path:  path,
		State: QUEUED,
	}
}

// Marks the job as resumed by the dispatcher.
func (j *Job) Run() {
	j.mustNotBeDone()
	j.State = RUNNING
	j.Dispatches++
}

// Marks the job as paused after its quantum elapsed. The job is queued again
// right away.
func (j *Job) Preempt() {
	j.mustNotBeDone()
	j.State = PREEMPTED
	j.Preemptions++
}

// Marks the job as waiting in a ready queue.
func (j *Job) Requeue() {
	j.mustNotBeDone()
	j.State = QUEUED
}

// Marks the job's process as exited. This is terminal.
func (j *Job) Complete() {
	j.State = COMPLETED
}

func (j *Job) Done() bool {
	return j.State == COMPLETED
}

func (j *Job) String() string {
	return fmt.Sprintf("%s(pid=%d)", j.Name, j.PID)
}

func (j *Job) mustNotBeDone() {
	if j.State == COMPLETED {
		panic(fmt.Sprintf("job %s already completed", j))
	}
}
