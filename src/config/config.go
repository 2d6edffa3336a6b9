package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"procsched/src/scheduler"
	"strings"
	"time"

	"golang.org/x/sys/unix"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

// Config holds the scheduler settings. Command line flags override values
// read from a file.
type Config struct {
	Policy      string        `yaml:"policy"`       // fifo, rr, mlfq, sjf
	Quantum     time.Duration `yaml:"quantum"`      // time slice for rr and mlfq
	Tiers       int           `yaml:"tiers"`        // mlfq tier count
	PauseSignal string        `yaml:"pause_signal"` // signal that pauses a preempted job
	StartDelay  time.Duration `yaml:"start_delay"`  // wait after launching, before scheduling
	PauseSettle time.Duration `yaml:"pause_settle"` // wait after pausing, before requeueing
	LogLevel    string        `yaml:"log_level"`    // debug, info, warn, error
	LogFormat   string        `yaml:"log_format"`   // text, json
	TracePath   string        `yaml:"trace"`        // CSV dispatch trace, empty disables it
}

func Default() Config {
	return Config{
		Quantum:     50 * time.Millisecond,
		Tiers:       2,
		PauseSignal: "SIGSTOP",
		StartDelay:  time.Second,
		PauseSettle: time.Millisecond,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Policy != "" {
		if _, err := scheduler.ParsePolicy(c.Policy); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	if c.Quantum <= 0 {
		return fmt.Errorf("%w: quantum must be positive, got %s", ErrInvalid, c.Quantum)
	}
	if c.Tiers < 1 {
		return fmt.Errorf("%w: tiers must be at least 1, got %d", ErrInvalid, c.Tiers)
	}
	if c.StartDelay < 0 || c.PauseSettle < 0 {
		return fmt.Errorf("%w: delays must not be negative", ErrInvalid)
	}
	if _, err := ParseSignal(c.PauseSignal); err != nil {
		return err
	}
	return nil
}

// Returns the time slice for policy. Non-preemptive policies get zero, which
// means run to completion.
func (c Config) QuantumFor(policy scheduler.Policy) time.Duration {
	if !policy.Preemptive() {
		return 0
	}
	return c.Quantum
}

func (c Config) Signal() unix.Signal {
	sig, err := ParseSignal(c.PauseSignal)
	if err != nil {
		return unix.SIGSTOP
	}
	return sig
}

// ParseSignal accepts "SIGUSR1", "usr1" and the like.
func ParseSignal(name string) (unix.Signal, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(upper, "SIG") {
		upper = "SIG" + upper
	}

	sig := unix.SignalNum(upper)
	if sig == 0 {
		return 0, fmt.Errorf("%w: unknown signal %q", ErrInvalid, name)
	}
	return sig, nil
}
