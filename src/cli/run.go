package cli

import (
	"fmt"
	"os"
	"os/signal"
	"procsched/src/config"
	"procsched/src/dispatcher"
	"procsched/src/launcher"
	"procsched/src/logging"
	"procsched/src/metrics"
	"procsched/src/scheduler"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

// Builds the configuration from the config file, then the flags that were
// set explicitly.
func loadConfig(cmd *cobra.Command, opts *options, policy scheduler.Policy, quantum time.Duration) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}
	if flags.Changed("trace") {
		cfg.TracePath = opts.tracePath
	}
	if flags.Changed("pause-signal") {
		cfg.PauseSignal = opts.pauseSignal
	}
	if flags.Changed("start-delay") {
		cfg.StartDelay = opts.startDelay
	}
	if opts.tiers > 0 {
		cfg.Tiers = opts.tiers
	}
	if quantum > 0 {
		cfg.Quantum = quantum
	}
	cfg.Policy = policy.String()

	if err := cfg.Validate(); err != nil {
		return cfg, usageErrorf(cmd, "%v", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, opts *options, policy scheduler.Policy, quantum time.Duration, specs []launcher.Spec) error {
	cfg, err := loadConfig(cmd, opts, policy, quantum)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	logger := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Attrs:  []any{"run_id", uuid.NewString(), "policy", policy.String()},
	}, cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, unix.SIGTERM)
	defer stop()

	recorder := metrics.NewRecorder()
	if err := recorder.OpenTrace(cfg.TracePath); err != nil {
		return err
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Warn("closing trace failed", "error", err)
		}
	}()

	l := launcher.New(launcher.Config{
		PauseSignal: cfg.Signal(),
		StartDelay:  cfg.StartDelay,
	}, logger)
	l.SetOutput(stdout)

	jobs, err := l.Launch(ctx, specs)
	if err != nil {
		return err
	}

	queue := scheduler.NewRunQueue(policy, cfg.Tiers)
	for _, job := range jobs {
		queue.Insert(job)
	}

	d := dispatcher.New(queue, l, dispatcher.Config{
		Quantum:     cfg.QuantumFor(policy),
		PauseSettle: cfg.PauseSettle,
	}, logger, recorder)
	d.SetOutput(stdout)

	report, err := d.Run(ctx)
	if err != nil {
		return fmt.Errorf("scheduling: %w", err)
	}

	if opts.summary {
		return report.Write(stdout)
	}
	return nil
}
