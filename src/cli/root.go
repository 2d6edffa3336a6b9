package cli

import (
	"errors"
	"fmt"
	"io"
	"procsched/src/config"
	"procsched/src/scheduler"
	"time"

	"github.com/spf13/cobra"
)

const (
	ExitOK      = 0
	ExitFailure = 1
	// Missing or malformed arguments. Nothing was launched.
	ExitUsage = 2
)

// A malformed invocation. Reported with the command's usage.
type UsageError struct {
	cmd *cobra.Command
	msg string
}

func (e *UsageError) Error() string {
	return e.msg
}

func usageErrorf(cmd *cobra.Command, format string, args ...any) error {
	return &UsageError{cmd: cmd, msg: fmt.Sprintf(format, args...)}
}

type options struct {
	configPath  string
	logLevel    string
	logFormat   string
	tracePath   string
	pauseSignal string
	startDelay  time.Duration
	summary     bool
	tiers       int
}

func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "procsched",
		Short: "Schedule child processes with FIFO, RR, MLFQ or SJF",
		Long: `procsched launches every job as a suspended child process and then
runs them one at a time with SIGCONT and a pause signal, following the
selected scheduling policy.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A config file may name the policy; the arguments are then the
			// policy's arguments.
			if opts.configPath != "" {
				cfg, err := config.Load(opts.configPath)
				if err != nil {
					return err
				}
				if cfg.Policy != "" {
					policy, err := scheduler.ParsePolicy(cfg.Policy)
					if err != nil {
						return usageErrorf(cmd, "%v", err)
					}
					return runPolicy(cmd, opts, policy, args, nil)
				}
			}

			if len(args) == 0 {
				return usageErrorf(cmd, "missing scheduling policy")
			}
			return usageErrorf(cmd, "unknown scheduling policy %q", args[0])
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{cmd: cmd, msg: err.Error()}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text, json")
	flags.StringVar(&opts.tracePath, "trace", "", "append a CSV dispatch trace to this file")
	flags.StringVar(&opts.pauseSignal, "pause-signal", "", "signal that pauses a preempted job (default SIGSTOP)")
	flags.DurationVar(&opts.startDelay, "start-delay", 0, "wait after launching the jobs before scheduling (default 1s)")
	flags.BoolVar(&opts.summary, "summary", false, "print per-job statistics when scheduling completes")

	root.AddCommand(
		newFifoCmd(opts),
		newSJFCmd(opts),
		newRoundRobinCmd(opts),
		newMultiLevelCmd(opts),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdout io.Writer, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return ExitOK
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintln(stderr, "Error:", usageErr.msg)
		if usageErr.cmd != nil {
			fmt.Fprint(stderr, usageErr.cmd.UsageString())
		}
		return ExitUsage
	}

	fmt.Fprintln(stderr, "Error:", err)
	return ExitFailure
}
