package scheduler_test

import (
	"procsched/src/model"
	"procsched/src/scheduler"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiLevel_SelectTier(t *testing.T) {
	m := scheduler.NewMultiLevel(2)
	jobs := newJobs("a", "b")

	_, _, ok := m.SelectTier()
	assert.False(t, ok)

	m.Insert(jobs[0])
	m.Insert(jobs[1])

	tier, q, ok := m.SelectTier()
	require.True(t, ok)
	assert.Equal(t, model.HIGH_TIER, tier)
	assert.Equal(t, []string{"a", "b"}, names(q.Jobs()))
}

// Test if a preempted job drops one tier and lower tiers are only selected
// once the higher tiers drained.
func TestMultiLevel_Demote(t *testing.T) {
	m := scheduler.NewMultiLevel(2)
	jobs := newJobs("a", "b", "c")
	for _, j := range jobs {
		m.Insert(j)
	}

	job, to := m.Demote(model.HIGH_TIER)
	assert.Same(t, jobs[0], job)
	assert.Equal(t, model.LOW_TIER, to)
	assert.Equal(t, model.LOW_TIER, job.Tier)

	m.Demote(model.HIGH_TIER)

	tier, q, _ := m.SelectTier()
	assert.Equal(t, model.HIGH_TIER, tier)
	assert.Equal(t, []string{"c"}, names(q.Jobs()))

	m.Tier(model.HIGH_TIER).RemoveFront()

	tier, q, _ = m.SelectTier()
	assert.Equal(t, model.LOW_TIER, tier)
	// Demotion order is kept within the lower tier.
	assert.Equal(t, []string{"a", "b"}, names(q.Jobs()))
}

// In the lowest tier a preempted job goes back to the tail of the same tier.
func TestMultiLevel_DemoteLowestTier(t *testing.T) {
	m := scheduler.NewMultiLevel(2)
	jobs := newJobs("a", "b")
	for _, j := range jobs {
		m.Insert(j)
	}
	m.Demote(model.HIGH_TIER)
	m.Demote(model.HIGH_TIER)

	job, to := m.Demote(model.LOW_TIER)
	assert.Same(t, jobs[0], job)
	assert.Equal(t, model.LOW_TIER, to)
	assert.Equal(t, []string{"b", "a"}, names(m.Tier(model.LOW_TIER).Jobs()))
}

func TestMultiLevel_AddTier(t *testing.T) {
	m := scheduler.NewMultiLevel(1)
	jobs := newJobs("a")
	m.Insert(jobs[0])

	// With one tier the job stays where it is.
	_, to := m.Demote(model.HIGH_TIER)
	assert.Equal(t, model.HIGH_TIER, to)

	assert.Equal(t, model.Tier(1), m.AddTier())
	assert.Equal(t, model.Tier(2), m.AddTier())
	assert.Equal(t, 3, m.Tiers())

	m.Demote(0)
	_, to = m.Demote(1)
	assert.Equal(t, model.Tier(2), to)
	assert.Equal(t, 1, m.Len())
}

func TestMultiLevel_ContractViolations(t *testing.T) {
	assert.Panics(t, func() { scheduler.NewMultiLevel(0) })

	m := scheduler.NewMultiLevel(2)
	assert.Panics(t, func() { m.Demote(model.HIGH_TIER) })
	assert.Panics(t, func() { m.Demote(5) })
	assert.Panics(t, func() { m.Complete() })
	assert.Panics(t, func() { m.Preempt() })
}
