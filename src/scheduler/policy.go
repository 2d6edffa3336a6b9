package scheduler

import (
	"errors"
	"fmt"
	"procsched/src/model"
	"strings"
)

type Policy string

const (
	FifoPolicy             Policy = "fifo"
	RoundRobinPolicy       Policy = "rr"
	MultiLevelPolicy       Policy = "mlfq"
	ShortestJobFirstPolicy Policy = "sjf"
)

var ErrUnknownPolicy = errors.New("unknown scheduling policy")

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fifo", "fcfs":
		return FifoPolicy, nil
	case "rr", "round-robin":
		return RoundRobinPolicy, nil
	case "mlfq", "mfq":
		return MultiLevelPolicy, nil
	case "sjf":
		return ShortestJobFirstPolicy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Whether jobs under this policy run for a quantum and can be preempted.
// Non-preemptive policies run every job to completion.
func (p Policy) Preemptive() bool {
	return p == RoundRobinPolicy || p == MultiLevelPolicy
}

func (p Policy) String() string {
	return string(p)
}

// Creates the ready structure for policy. tiers is only used by the
// multi-level feedback policy; values below one select the default.
func NewRunQueue(policy Policy, tiers int) RunQueue {
	switch policy {
	case FifoPolicy:
		return &singleQueue{queue: NewFIFO()}
	case RoundRobinPolicy:
		return &singleQueue{queue: NewFIFO(), rotate: true}
	case ShortestJobFirstPolicy:
		return &singleQueue{queue: NewShortestFirst()}
	case MultiLevelPolicy:
		if tiers < 1 {
			tiers = model.DEFAULT_TIER_COUNT
		}
		return NewMultiLevel(tiers)
	default:
		panic("invalid queue policy")
	}
}

// A run queue over a single ready queue.
type singleQueue struct {
	queue  ReadyQueue
	rotate bool
}

func (s *singleQueue) Insert(job *model.Job) {
	s.queue.Insert(job)
}

func (s *singleQueue) Next() (*model.Job, model.Tier, bool) {
	job, ok := s.queue.PeekFront()
	return job, model.HIGH_TIER, ok
}

func (s *singleQueue) Complete() *model.Job {
	return s.queue.RemoveFront()
}

func (s *singleQueue) Preempt() (*model.Job, model.Tier, model.Tier) {
	if !s.rotate {
		panic("preempt on a run-to-completion queue")
	}
	job := s.queue.RemoveFront()
	s.queue.Insert(job)
	return job, model.HIGH_TIER, model.HIGH_TIER
}

func (s *singleQueue) Len() int {
	return s.queue.Len()
}
