package cli

import (
	"math"
	"procsched/src/launcher"
	"procsched/src/scheduler"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newFifoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fifo job1 [job2 ... jobN]",
		Short: "Run jobs to completion in arrival order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPolicy(cmd, opts, scheduler.FifoPolicy, args, nil)
		},
	}
}

func newSJFCmd(opts *options) *cobra.Command {
	var bursts []int

	cmd := &cobra.Command{
		Use:   "sjf [--burst B]... job1 [job2 ... jobN]",
		Short: "Run jobs to completion, shortest estimated burst first",
		Long: `Run jobs to completion, shortest estimated burst first.

Bursts are given with one --burst per job, in job order. Without --burst the
burst is read from each job's name: the digits after its first character, so
./p5 has burst 5.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPolicy(cmd, opts, scheduler.ShortestJobFirstPolicy, args, bursts)
		},
	}
	cmd.Flags().IntSliceVar(&bursts, "burst", nil, "estimated burst length, one per job in order")
	return cmd
}

func newRoundRobinCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rr [quantum_ms] job1 [job2 ... jobN]",
		Short: "Run jobs in turns of one time quantum",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPolicy(cmd, opts, scheduler.RoundRobinPolicy, args, nil)
		},
	}
}

func newMultiLevelCmd(opts *options) *cobra.Command {
	var tiers int

	cmd := &cobra.Command{
		Use:   "mlfq [--tiers N] [quantum_ms] job1 [job2 ... jobN]",
		Short: "Round-robin per tier; a preempted job drops one tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("tiers") {
				if tiers < 1 {
					return usageErrorf(cmd, "--tiers must be at least 1")
				}
				opts.tiers = tiers
			}
			return runPolicy(cmd, opts, scheduler.MultiLevelPolicy, args, nil)
		},
	}
	cmd.Flags().IntVar(&tiers, "tiers", 2, "number of priority tiers")
	return cmd
}

// Turns the positional arguments of a policy into job specs and runs them.
func runPolicy(cmd *cobra.Command, opts *options, policy scheduler.Policy, args []string, bursts []int) error {
	if len(args) == 0 {
		return usageErrorf(cmd, "at least one job is required")
	}

	var quantum time.Duration
	if policy.Preemptive() {
		var err error
		if quantum, args, err = splitQuantum(cmd, args); err != nil {
			return err
		}
	}

	specs := make([]launcher.Spec, len(args))
	for i, path := range args {
		specs[i] = launcher.Spec{Path: path}
	}

	if policy == scheduler.ShortestJobFirstPolicy {
		if err := assignBursts(cmd, specs, bursts); err != nil {
			return err
		}
	}
	return run(cmd, opts, policy, quantum, specs)
}

// Splits a leading quantum in milliseconds off the job list. Without one the
// configured quantum applies, which is reported as zero.
func splitQuantum(cmd *cobra.Command, args []string) (time.Duration, []string, error) {
	ms, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, args, nil
	}
	if ms <= 0 {
		return 0, nil, usageErrorf(cmd, "quantum must be a positive number of milliseconds, got %d", ms)
	}
	if int64(ms) > math.MaxInt64/int64(time.Millisecond) {
		return 0, nil, usageErrorf(cmd, "quantum of %d milliseconds is too large", ms)
	}
	if len(args) == 1 {
		return 0, nil, usageErrorf(cmd, "at least one job is required after the quantum")
	}
	return time.Duration(ms) * time.Millisecond, args[1:], nil
}

// Uses the explicit bursts when given, else reads them from the job names.
func assignBursts(cmd *cobra.Command, specs []launcher.Spec, bursts []int) error {
	if len(bursts) == 0 {
		for i := range specs {
			b, err := launcher.BurstFromName(specs[i].Path)
			if err != nil {
				return usageErrorf(cmd, "%v (use --burst)", err)
			}
			specs[i].Burst = b
		}
		return nil
	}

	if len(bursts) != len(specs) {
		return usageErrorf(cmd, "got %d bursts for %d jobs", len(bursts), len(specs))
	}
	for i, b := range bursts {
		if b < 0 {
			return usageErrorf(cmd, "burst for %s must not be negative", specs[i].Path)
		}
		specs[i].Burst = b
	}
	return nil
}
