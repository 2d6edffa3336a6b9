package scheduler

import (
	"fmt"
	"procsched/src/model"
)

// An ordered list of FIFO ready queues, highest priority tier first.
//
// New jobs enter the highest tier. A preempted job moves one tier down and
// never moves back up; jobs preempted in the lowest tier round-robin there.
type MultiLevel struct {
	tiers []*FIFOQueue
}

// Creates a multi-level structure with the given number of empty tiers.
func NewMultiLevel(tiers int) *MultiLevel {
	if tiers < 1 {
		panic(fmt.Sprintf("multi-level structure needs at least one tier, got %d", tiers))
	}

	m := &MultiLevel{}
	for i := 0; i < tiers; i++ {
		m.AddTier()
	}
	return m
}

// Appends an empty tier below every existing tier. Returns its index.
func (m *MultiLevel) AddTier() model.Tier {
	m.tiers = append(m.tiers, NewFIFO())
	return model.Tier(len(m.tiers) - 1)
}

func (m *MultiLevel) Tiers() int {
	return len(m.tiers)
}

func (m *MultiLevel) Tier(tier model.Tier) *FIFOQueue {
	m.mustHaveTier(tier)
	return m.tiers[tier]
}

// Inserts a job at the tail of the highest tier.
func (m *MultiLevel) Insert(job *model.Job) {
	job.Tier = model.HIGH_TIER
	m.tiers[model.HIGH_TIER].Insert(job)
}

// Returns the highest tier that holds a job, or false if every tier is empty.
func (m *MultiLevel) SelectTier() (model.Tier, *FIFOQueue, bool) {
	for i, q := range m.tiers {
		if !q.IsEmpty() {
			return model.Tier(i), q, true
		}
	}
	return -1, nil, false
}

// Moves the job at the front of tier to the tail of the next lower tier. In
// the lowest tier the job goes to the tail of the same tier.
//
// Panics if the tier is empty.
func (m *MultiLevel) Demote(tier model.Tier) (*model.Job, model.Tier) {
	m.mustHaveTier(tier)

	to := tier
	if int(tier) < len(m.tiers)-1 {
		to = tier + 1
	}

	job := m.tiers[tier].RemoveFront()
	job.Tier = to
	m.tiers[to].Insert(job)
	return job, to
}

func (m *MultiLevel) Next() (*model.Job, model.Tier, bool) {
	tier, q, ok := m.SelectTier()
	if !ok {
		return nil, -1, false
	}
	job, _ := q.PeekFront()
	return job, tier, true
}

func (m *MultiLevel) Complete() *model.Job {
	_, q, ok := m.SelectTier()
	if !ok {
		panic("complete on empty multi-level structure")
	}
	return q.RemoveFront()
}

func (m *MultiLevel) Preempt() (*model.Job, model.Tier, model.Tier) {
	from, _, ok := m.SelectTier()
	if !ok {
		panic("preempt on empty multi-level structure")
	}
	job, to := m.Demote(from)
	return job, from, to
}

func (m *MultiLevel) Len() int {
	n := 0
	for _, q := range m.tiers {
		n += q.Len()
	}
	return n
}

func (m *MultiLevel) mustHaveTier(tier model.Tier) {
	if tier < 0 || int(tier) >= len(m.tiers) {
		panic(fmt.Sprintf("tier %d out of range [0, %d)", tier, len(m.tiers)))
	}
}
