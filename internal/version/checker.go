package version

import (
	"context"
	"log/slog"
	"sync"
	"time"

	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/logfields"
	"git.home.luguber.info/inful/catalogmirror/internal/retry"
)

// ProgramUpdate describes a staged program build that can be launched.
type ProgramUpdate struct {
	Version    string `json:"version"`
	LaunchPath string `json:"launch_path"`
}

// State is the outcome of one probe. The two facts are independent.
type State struct {
	DataChanged   bool
	ProgramUpdate *ProgramUpdate
	ProbedAt      time.Time
}

// HasProgramUpdate reports whether a launchable build is staged.
func (s State) HasProgramUpdate() bool { return s.ProgramUpdate != nil }

// Probe obtains a fresh State.
type Probe interface {
	Probe(ctx context.Context) (State, error)
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func(ctx context.Context) (State, error)

// Probe calls f.
func (f ProbeFunc) Probe(ctx context.Context) (State, error) { return f(ctx) }

// Checker holds the outcome of the most recent successful probe. No history is kept.
type Checker struct {
	probe  Probe
	policy retry.Policy

	mu    sync.RWMutex
	state State
}

// NewChecker creates a checker around probe.
func NewChecker(probe Probe, policy retry.Policy) *Checker {
	return &Checker{probe: probe, policy: policy}
}

// Refresh runs the probe, retrying failures classified as retryable.
// On failure the previous state is kept and returned with the error.
func (c *Checker) Refresh(ctx context.Context) (State, error) {
	var next State
	err := c.policy.Do(ctx, ferrors.IsRetryable, func(ctx context.Context) error {
		s, err := c.probe.Probe(ctx)
		if err != nil {
			return err
		}
		next = s
		return nil
	})
	if err != nil {
		slog.Warn("Version probe failed", logfields.Error(err))
		if !ferrors.IsClassified(err) {
			err = ferrors.WrapError(err, ferrors.CategoryProbe, "version probe failed").Build()
		}
		return c.State(), err
	}
	if next.ProbedAt.IsZero() {
		next.ProbedAt = time.Now()
	}

	c.mu.Lock()
	c.state = next
	c.mu.Unlock()

	attrs := []any{slog.Bool("data_changed", next.DataChanged)}
	if next.ProgramUpdate != nil {
		attrs = append(attrs, logfields.Version(next.ProgramUpdate.Version))
	}
	slog.Debug("Version probe completed", attrs...)
	return next, nil
}

// State returns the last probe outcome.
func (c *Checker) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}
