package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"procsched/src/logging"
	"procsched/src/model"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

var (
	ErrNoJobs  = errors.New("no jobs to launch")
	ErrNoBurst = errors.New("no burst length in job name")
	// The child exited before it could be suspended.
	ErrNotStopped = errors.New("child exited before stopping")
)

// A program to launch as a job.
type Spec struct {
	Path  string
	Burst int
}

type Config struct {
	// Signal that pauses a preempted job. SIGSTOP works for any program;
	// children that stop themselves on SIGUSR1 can use that instead.
	PauseSignal unix.Signal
	// Wait after launching every job, before scheduling starts.
	StartDelay time.Duration
	// Where the children's output goes. Defaults to the parent's.
	Stdout io.Writer
	Stderr io.Writer
}

// Launcher starts jobs as suspended child processes and controls them with
// signals.
type Launcher struct {
	config Config
	logger *slog.Logger
	out    io.Writer

	mu    sync.Mutex
	procs map[uuid.UUID]*process
}

type process struct {
	cmd    *exec.Cmd
	exited chan struct{}
	err    error // set before exited is closed
}

func New(cfg Config, logger *slog.Logger) *Launcher {
	if cfg.PauseSignal == 0 {
		cfg.PauseSignal = unix.SIGSTOP
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	return &Launcher{
		config: cfg,
		logger: logging.For(logger, "launcher"),
		out:    os.Stdout,
		procs:  map[uuid.UUID]*process{},
	}
}

// Sets where status lines are printed. Defaults to stdout.
func (l *Launcher) SetOutput(w io.Writer) {
	l.out = w
}

// Launch starts one suspended child per spec, in order.
//
// If any child fails to start, the children started so far are killed and
// the error is returned.
func (l *Launcher) Launch(ctx context.Context, specs []Spec) ([]*model.Job, error) {
	if len(specs) == 0 {
		return nil, ErrNoJobs
	}

	jobs := make([]*model.Job, 0, len(specs))
	for _, spec := range specs {
		fmt.Fprintf(l.out, "Parent: Creating program %s\n", spec.Path)

		job, err := l.start(spec)
		if err != nil {
			l.killAll(jobs)
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if l.config.StartDelay > 0 {
		delay := time.NewTimer(l.config.StartDelay)
		defer delay.Stop()
		select {
		case <-delay.C:
		case <-ctx.Done():
			l.killAll(jobs)
			return nil, ctx.Err()
		}
	}
	return jobs, nil
}

// The child shell stops itself and only execs the job once it is continued,
// so none of the job's own code runs before the first Resume.
const stopBeforeExec = `kill -STOP $$; exec "$0"`

func (l *Launcher) start(spec Spec) (*model.Job, error) {
	path, err := exec.LookPath(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("launch %s: %w", spec.Path, err)
	}

	cmd := exec.Command("/bin/sh", "-c", stopBeforeExec, path)
	cmd.Stdout = l.config.Stdout
	cmd.Stderr = l.config.Stderr
	// Keep terminal signals away from the children; the dispatcher decides
	// when they run.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("launch %s: %w", spec.Path, err)
	}

	job := model.NewJob(spec.Path, spec.Path)
	job.PID = cmd.Process.Pid
	job.Burst = spec.Burst

	// A Resume that arrived before the stop would be lost.
	if err := waitStopped(job.PID); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, fmt.Errorf("suspend %s: %w", job, err)
	}

	p := &process{cmd: cmd, exited: make(chan struct{})}
	l.mu.Lock()
	l.procs[job.ID] = p
	l.mu.Unlock()

	go l.watch(job, p)

	l.logger.Debug("job launched", "job", job.Name, "pid", job.PID, "burst", job.Burst)
	return job, nil
}

// Waits for the child to exit and closes its exit channel. This is the only
// place that learns about exits.
func (l *Launcher) watch(job *model.Job, p *process) {
	p.err = p.cmd.Wait()
	close(p.exited)

	code := -1
	if p.cmd.ProcessState != nil {
		code = p.cmd.ProcessState.ExitCode()
	}
	l.logger.Debug("job exited", "job", job.Name, "pid", job.PID, "exit_code", code)
}

func (l *Launcher) Resume(job *model.Job) error {
	return l.signal(job, unix.SIGCONT)
}

func (l *Launcher) Pause(job *model.Job) error {
	return l.signal(job, l.config.PauseSignal)
}

func (l *Launcher) Kill(job *model.Job) error {
	return l.signal(job, unix.SIGKILL)
}

// Returns a channel closed once the job's process has exited. Unknown jobs
// get a closed channel.
func (l *Launcher) Exited(job *model.Job) <-chan struct{} {
	p, ok := l.lookup(job)
	if !ok {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return p.exited
}

// Returns the error Wait reported for the job, or nil while it still runs.
func (l *Launcher) ExitErr(job *model.Job) error {
	p, ok := l.lookup(job)
	if !ok {
		return nil
	}
	select {
	case <-p.exited:
		return p.err
	default:
		return nil
	}
}

func (l *Launcher) signal(job *model.Job, sig unix.Signal) error {
	p, ok := l.lookup(job)
	if !ok {
		return fmt.Errorf("signal %s: unknown job", job)
	}

	select {
	case <-p.exited:
		return os.ErrProcessDone
	default:
	}

	if err := p.cmd.Process.Signal(sig); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return os.ErrProcessDone
		}
		return fmt.Errorf("signal %s %s: %w", job, sig, err)
	}
	return nil
}

func (l *Launcher) lookup(job *model.Job) (*process, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.procs[job.ID]
	return p, ok
}

func (l *Launcher) killAll(jobs []*model.Job) {
	for _, job := range jobs {
		if err := l.Kill(job); err != nil && !errors.Is(err, os.ErrProcessDone) {
			l.logger.Warn("kill failed", "job", job.Name, "pid", job.PID, "error", err)
		}
	}
}

// BurstFromName reads the burst length encoded in a job's name: the digits
// following the first character of its base name, so "./p5" has burst 5.
func BurstFromName(name string) (int, error) {
	base := filepath.Base(name)
	if len(base) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrNoBurst, name)
	}

	digits := base[1:]
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoBurst, name)
	}

	burst, err := strconv.Atoi(digits[:end])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrNoBurst, name, err)
	}
	return burst, nil
}
