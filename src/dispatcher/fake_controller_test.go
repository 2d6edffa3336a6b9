package dispatcher_test

import (
	"errors"
	"os"
	"procsched/src/model"
	"sync"
	"time"
)

// A controller that simulates jobs needing a fixed amount of run time.
//
// Every resume consumes one quantum of the job's remaining time, or all of it
// when there is no quantum. A job whose remaining time fits into the slice
// exits right away.
type fakeController struct {
	mu      sync.Mutex
	quantum time.Duration
	procs   map[*model.Job]*fakeProc

	dispatched []string
	killed     []string
	running    int
	maxRunning int

	// Called instead of the default behavior when set.
	onResume func(job *model.Job) error
	onPause  func(job *model.Job, p *fakeProc) error
}

type fakeProc struct {
	remaining time.Duration
	hang      bool
	exited    chan struct{}
	done      bool
	exitErr   error
}

func newFakeController(quantum time.Duration) *fakeController {
	return &fakeController{
		quantum: quantum,
		procs:   map[*model.Job]*fakeProc{},
	}
}

// Creates a job needing runtime. A negative runtime never exits.
func (c *fakeController) add(name string, runtime time.Duration) *model.Job {
	c.mu.Lock()
	defer c.mu.Unlock()

	job := model.NewJob(name, "./"+name)
	job.PID = 1000 + len(c.procs)
	c.procs[job] = &fakeProc{
		remaining: runtime,
		hang:      runtime < 0,
		exited:    make(chan struct{}),
	}
	return job
}

func (p *fakeProc) exit() {
	if !p.done {
		p.done = true
		close(p.exited)
	}
}

func (c *fakeController) Resume(job *model.Job) error {
	if c.onResume != nil {
		if err := c.onResume(job); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.procs[job]
	if p.done {
		return os.ErrProcessDone
	}
	c.dispatched = append(c.dispatched, job.Name)
	c.running++
	if c.running > c.maxRunning {
		c.maxRunning = c.running
	}

	if p.hang {
		return nil
	}
	if c.quantum <= 0 || p.remaining <= c.quantum {
		p.remaining = 0
		c.running--
		p.exit()
		return nil
	}
	p.remaining -= c.quantum
	return nil
}

func (c *fakeController) Pause(job *model.Job) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.procs[job]
	if p.done {
		return os.ErrProcessDone
	}
	c.running--
	if c.onPause != nil {
		return c.onPause(job, p)
	}
	return nil
}

func (c *fakeController) Exited(job *model.Job) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.procs[job].exited
}

func (c *fakeController) Kill(job *model.Job) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.procs[job]
	if p.done {
		return os.ErrProcessDone
	}
	c.killed = append(c.killed, job.Name)
	p.exit()
	return nil
}

func (c *fakeController) ExitErr(job *model.Job) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.procs[job]
	if !p.done {
		return nil
	}
	return p.exitErr
}

var errSignal = errors.New("operation not permitted")
