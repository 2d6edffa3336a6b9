package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"procsched/src/logging"
	"procsched/src/metrics"
	"procsched/src/model"
	"procsched/src/scheduler"
	"time"
)

// Controller suspends, resumes and observes the processes behind jobs.
type Controller interface {
	// Resume a suspended job. Returns os.ErrProcessDone if it already exited.
	Resume(job *model.Job) error

	// Pause a running job. Returns os.ErrProcessDone if it already exited.
	Pause(job *model.Job) error

	// Returns a channel that is closed once the job's process has exited.
	Exited(job *model.Job) <-chan struct{}

	// Terminate a job that will not be scheduled anymore.
	Kill(job *model.Job) error

	// The error the job's process exited with, nil for a clean exit or while
	// the exit is not yet known.
	ExitErr(job *model.Job) error
}

type Config struct {
	// Time slice per dispatch. Zero runs every job to completion.
	Quantum time.Duration
	// Time granted to a paused job before it is requeued. A job that exits
	// within it counts as completed.
	PauseSettle time.Duration
}

// Dispatcher runs the jobs of a run queue one at a time until the queue is
// empty.
type Dispatcher struct {
	queue    scheduler.RunQueue
	ctl      Controller
	config   Config
	logger   *slog.Logger
	recorder *metrics.Recorder
	out      io.Writer
}

func New(
	queue scheduler.RunQueue,
	ctl Controller,
	cfg Config,
	logger *slog.Logger,
	recorder *metrics.Recorder,
) *Dispatcher {
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	return &Dispatcher{
		queue:    queue,
		ctl:      ctl,
		config:   cfg,
		logger:   logging.For(logger, "dispatcher"),
		recorder: recorder,
		out:      os.Stdout,
	}
}

// Sets where status lines are printed. Defaults to stdout.
func (d *Dispatcher) SetOutput(w io.Writer) {
	d.out = w
}

// Run dispatches jobs until every ready queue is empty.
//
// If ctx is cancelled the remaining jobs are killed and ctx.Err() is
// returned.
func (d *Dispatcher) Run(ctx context.Context) (metrics.Report, error) {
	fmt.Fprintln(d.out, "\nScheduler: Program scheduling beginning...")
	d.logger.Info("scheduling started", "jobs", d.queue.Len(), "quantum", d.config.Quantum)
	d.recorder.MarkRunStart()

	for {
		if err := ctx.Err(); err != nil {
			d.abort()
			return d.recorder.Report(), err
		}

		job, tier, ok := d.queue.Next()
		if !ok {
			break
		}

		outcome, err := d.dispatch(ctx, job, tier)
		if err != nil {
			d.abort()
			return d.recorder.Report(), err
		}

		switch outcome {
		case Completed:
			d.queue.Complete()
			job.Complete()
			d.recorder.Complete(job, tier)
			fmt.Fprintln(d.out, "Scheduler: A child has completed")
			attrs := []any{"job", job.Name, "pid", job.PID, "tier", tier}
			if err := d.ctl.ExitErr(job); err != nil {
				attrs = append(attrs, "exit_error", err)
			}
			d.logger.Debug("job completed", attrs...)
		case Preempted:
			job.Preempt()
			_, from, to := d.queue.Preempt()
			job.Requeue()
			d.recorder.Preempt(job, from, to)
			d.logger.Debug("job preempted", "job", job.Name, "pid", job.PID, "from", from, "to", to)
		case Cancelled:
			d.abort()
			return d.recorder.Report(), ctx.Err()
		}
	}

	fmt.Fprintln(d.out, "Scheduler: Scheduling complete")
	report := d.recorder.Report()
	d.logger.Info("scheduling complete",
		"cycles", report.Cycles,
		"preemptions", report.Preemptions,
		"duration", report.Duration,
	)
	return report, nil
}

// Runs job for one time slice.
func (d *Dispatcher) dispatch(ctx context.Context, job *model.Job, tier model.Tier) (Outcome, error) {
	job.Run()
	d.recorder.Dispatch(job, tier)
	d.logger.Debug("job dispatched", "job", job.Name, "pid", job.PID, "tier", tier)

	exited := d.ctl.Exited(job)
	if err := d.ctl.Resume(job); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return Completed, nil
		}
		return Cancelled, fmt.Errorf("resume %s: %w", job, err)
	}

	outcome := Await(ctx, exited, d.config.Quantum)
	if outcome != Preempted {
		return outcome, nil
	}

	if err := d.ctl.Pause(job); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return Completed, nil
		}
		return Cancelled, fmt.Errorf("pause %s: %w", job, err)
	}

	if d.config.PauseSettle > 0 {
		settle := time.NewTimer(d.config.PauseSettle)
		defer settle.Stop()
		select {
		case <-exited:
			return Completed, nil
		case <-settle.C:
		}
	}

	select {
	case <-exited:
		return Completed, nil
	default:
		return Preempted, nil
	}
}

// Kills every job still queued.
func (d *Dispatcher) abort() {
	for {
		job, _, ok := d.queue.Next()
		if !ok {
			return
		}
		d.queue.Complete()
		job.Complete()

		if err := d.ctl.Kill(job); err != nil && !errors.Is(err, os.ErrProcessDone) {
			d.logger.Warn("kill failed", "job", job.Name, "pid", job.PID, "error", err)
		}
	}
}
