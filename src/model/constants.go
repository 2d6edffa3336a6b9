package model

type Tier int

const (
	HIGH_TIER Tier = iota
	LOW_TIER
)

// Number of tiers used by the multi-level feedback policy when none is configured.
const DEFAULT_TIER_COUNT = int(LOW_TIER) + 1

type JobState int

const (
	QUEUED JobState = iota
	RUNNING
	PREEMPTED
	COMPLETED
)

func (s JobState) String() string {
	switch s {
	case QUEUED:
		return "queued"
	case RUNNING:
		return "running"
	case PREEMPTED:
		return "preempted"
	case COMPLETED:
		return "completed"
	default:
		return "unknown"
	}
}
