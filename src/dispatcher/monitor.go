package dispatcher

import (
	"context"
	"time"
)

// The result of letting a job run for one time slice.
type Outcome int

const (
	// The job's process exited during the slice.
	Completed Outcome = iota
	// The slice elapsed and the process is still alive.
	Preempted
	// The context was cancelled while the job was running.
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Preempted:
		return "preempted"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Await blocks until the process behind exited terminates or quantum elapses,
// whichever happens first. A quantum of zero or less waits for the exit only.
//
// An exit that is observable when the quantum fires counts as completion, so
// an exited process is never classified as preempted.
func Await(ctx context.Context, exited <-chan struct{}, quantum time.Duration) Outcome {
	if quantum <= 0 {
		select {
		case <-exited:
			return Completed
		case <-ctx.Done():
			return Cancelled
		}
	}

	timer := time.NewTimer(quantum)
	defer timer.Stop()

	select {
	case <-exited:
		return Completed
	case <-ctx.Done():
		return Cancelled
	case <-timer.C:
	}

	select {
	case <-exited:
		return Completed
	default:
		return Preempted
	}
}
