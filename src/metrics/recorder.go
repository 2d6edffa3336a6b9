package metrics

import (
	"fmt"
	"io"
	"procsched/src/model"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	DispatchEvent EventKind = "dispatch"
	PreemptEvent  EventKind = "preempt"
	DemoteEvent   EventKind = "demote"
	CompleteEvent EventKind = "complete"
)

type Event struct {
	At   time.Time
	Kind EventKind
	Job  string
	PID  int
	Tier model.Tier
}

type JobStats struct {
	Name        string
	PID         int
	Dispatches  int
	Preemptions int
	Demotions   int
	// Time from the start of the run until the job's exit was observed.
	Turnaround time.Duration
}

type Report struct {
	Cycles      int
	Preemptions int
	Demotions   int
	// Job names in completion order.
	Completed []string
	Jobs      []JobStats
	Duration  time.Duration
	// Every recorded event, oldest first.
	Events []Event
}

// Recorder counts what the dispatcher does during one run and optionally
// writes every event to a CSV trace.
type Recorder struct {
	mu       sync.Mutex
	runStart time.Time
	events   []Event
	jobs     map[uuid.UUID]*JobStats
	order    []uuid.UUID
	report   Report
	trace    csvOut
}

func NewRecorder() *Recorder {
	return &Recorder{
		runStart: time.Now(),
		jobs:     map[uuid.UUID]*JobStats{},
	}
}

// Writes one row per event to path. Rows are appended to an existing file.
func (r *Recorder) OpenTrace(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trace.open(path, []string{"ts", "event", "job", "pid", "tier"})
}

func (r *Recorder) MarkRunStart() {
	r.mu.Lock()
	r.runStart = time.Now()
	r.mu.Unlock()
}

func (r *Recorder) Dispatch(job *model.Job, tier model.Tier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.Cycles++
	r.statsLocked(job).Dispatches++
	r.recordLocked(DispatchEvent, job, tier)
}

// Records a preemption. A job that moved to another tier also counts as a
// demotion.
func (r *Recorder) Preempt(job *model.Job, from model.Tier, to model.Tier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.statsLocked(job)
	r.report.Preemptions++
	st.Preemptions++
	r.recordLocked(PreemptEvent, job, from)

	if from != to {
		r.report.Demotions++
		st.Demotions++
		r.recordLocked(DemoteEvent, job, to)
	}
}

func (r *Recorder) Complete(job *model.Job, tier model.Tier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.statsLocked(job)
	st.Turnaround = time.Since(r.runStart)
	r.report.Completed = append(r.report.Completed, job.Name)
	r.recordLocked(CompleteEvent, job, tier)
}

func (r *Recorder) Report() Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	report := r.report
	report.Completed = append([]string(nil), r.report.Completed...)
	report.Duration = time.Since(r.runStart)
	report.Events = append([]Event(nil), r.events...)
	for _, id := range r.order {
		report.Jobs = append(report.Jobs, *r.jobs[id])
	}
	return report
}

func (r *Recorder) Close() error {
	return r.trace.close()
}

func (r *Recorder) statsLocked(job *model.Job) *JobStats {
	st, ok := r.jobs[job.ID]
	if !ok {
		st = &JobStats{Name: job.Name, PID: job.PID}
		r.jobs[job.ID] = st
		r.order = append(r.order, job.ID)
	}
	return st
}

func (r *Recorder) recordLocked(kind EventKind, job *model.Job, tier model.Tier) {
	ev := Event{
		At:   time.Now(),
		Kind: kind,
		Job:  job.Name,
		PID:  job.PID,
		Tier: tier,
	}
	r.events = append(r.events, ev)
	r.trace.write([]string{
		ev.At.Format(time.RFC3339Nano),
		string(kind),
		job.Name,
		strconv.Itoa(job.PID),
		strconv.Itoa(int(tier)),
	})
}

// Writes a per-job summary of the run.
func (rep Report) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Summary: %d dispatch cycles, %d preemptions, %d demotions in %s\n",
		rep.Cycles, rep.Preemptions, rep.Demotions, rep.Duration.Round(time.Millisecond))
	if err != nil {
		return err
	}
	if order := rep.DispatchOrder(); len(order) > 0 {
		if _, err = fmt.Fprintf(w, "  dispatch order: %s\n", strings.Join(order, " ")); err != nil {
			return err
		}
	}
	for _, j := range rep.Jobs {
		_, err = fmt.Fprintf(w, "  %-16s pid=%-7d dispatches=%-4d preemptions=%-4d turnaround=%s\n",
			j.Name, j.PID, j.Dispatches, j.Preemptions, j.Turnaround.Round(time.Millisecond))
		if err != nil {
			return err
		}
	}
	return nil
}

// Names of the dispatched jobs, one per cycle.
func (rep Report) DispatchOrder() []string {
	order := []string{}
	for _, ev := range rep.Events {
		if ev.Kind == DispatchEvent {
			order = append(order, ev.Job)
		}
	}
	return order
}
