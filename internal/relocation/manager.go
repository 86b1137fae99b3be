package relocation

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/catalogmirror/internal/config"
	"git.home.luguber.info/inful/catalogmirror/internal/eventstore"
	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/launch"
	"git.home.luguber.info/inful/catalogmirror/internal/logfields"
	"git.home.luguber.info/inful/catalogmirror/internal/metrics"
	"git.home.luguber.info/inful/catalogmirror/internal/opgate"
	"git.home.luguber.info/inful/catalogmirror/internal/repository"
)

// Repository is the handle being moved.
type Repository interface {
	Path() string
	SetStoredPath(path string) error
}

// ActivityChecker reports whether background jobs are running.
type ActivityChecker interface {
	HasActiveJobs() bool
}

// Reporter shows errors and messages to the user.
type Reporter interface {
	Error(err error)
	Say(msg string)
}

// ProcessCloser ends the running program.
type ProcessCloser interface {
	CloseProcess()
}

// Deps are the collaborators of a Manager. Importer, Launcher and Gate get defaults.
type Deps struct {
	Repo     Repository
	Jobs     ActivityChecker
	Reporter Reporter
	Process  ProcessCloser
	Importer Importer
	Launcher launch.Launcher
	Gate     *opgate.Gate
}

// Options tune a Manager.
type Options struct {
	AppName    string
	Executable string // program file name inside RunDir
	RunDir     string // runtime payload directory relative to the repository root
	Recorder   metrics.Recorder
	Journal    *eventstore.Journal
}

// Manager moves the repository to a new location.
type Manager struct {
	deps Deps
	opts Options
}

// NewManager creates a manager.
func NewManager(deps Deps, opts Options) *Manager {
	if deps.Importer == nil {
		deps.Importer = FileImporter{}
	}
	if deps.Launcher == nil {
		deps.Launcher = launch.ExecLauncher{}
	}
	if deps.Gate == nil {
		deps.Gate = opgate.New()
	}
	if opts.AppName == "" {
		opts.AppName = config.DefaultAppName
	}
	if opts.Executable == "" {
		opts.Executable = config.DefaultExecutable
	}
	if opts.RunDir == "" {
		opts.RunDir = config.DefaultRunDir
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	return &Manager{deps: deps, opts: opts}
}

// Relocate moves the repository and returns false only when the target path is
// unusable. A true return does not mean success: other failures were reported.
func (m *Manager) Relocate(newPath string) bool {
	return m.Move(context.Background(), newPath) != ResultPreflightRejected
}

// Move runs the relocation steps in order, stopping at the first failure.
func (m *Manager) Move(ctx context.Context, newPath string) Result {
	from := m.deps.Repo.Path()
	to, err := filepath.Abs(newPath)
	if err != nil || newPath == "" {
		return m.finish(ctx, ResultPreflightRejected, from, newPath, nil)
	}
	if filepath.Clean(to) == filepath.Clean(from) {
		slog.Info("Relocation target is the current repository", logfields.RepoPath(from))
		return m.finish(ctx, ResultSuccess, from, to, nil)
	}
	if within(to, from) || within(from, to) {
		slog.Warn("Relocation target overlaps the current repository", logfields.RepoPath(from), logfields.Path(to))
		return m.finish(ctx, ResultPreflightRejected, from, to, nil)
	}
	if !IsWritable(to) {
		slog.Warn("Relocation target not writable", logfields.Path(to))
		return m.finish(ctx, ResultPreflightRejected, from, to, nil)
	}

	release, ok := m.deps.Gate.TryEnter("relocate")
	if !ok {
		return m.abort(ctx, from, to, ferrors.RelocationError("cannot move the repository while it is being reloaded").
			WithContext("holder", m.deps.Gate.Holder()).
			Build())
	}
	defer release()

	if m.deps.Jobs.HasActiveJobs() {
		return m.abort(ctx, from, to,
			ferrors.RelocationError("cannot change directories while downloads are in progress").Build())
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"import", func() error { return m.deps.Importer.ImportRepository(ctx, from, to) }},
		{"runtime", func() error { return m.copyGroup(from, to, repository.RunDir, true) }},
		{"channels", func() error { return m.copyGroup(from, to, repository.ChannelsDir, false) }},
		{"cache", func() error { return m.copyGroup(from, to, repository.CacheConfFile, false) }},
		{"marker", func() error { return WriteMarker(to, from) }},
		{"repoint", func() error { return m.deps.Repo.SetStoredPath(to) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			err = ferrors.WrapError(err, ferrors.CategoryRelocation, fmt.Sprintf("relocation step %q failed", step.name)).
				WithContext("step", step.name).
				UserAction().
				Build()
			slog.Error("Relocation step failed", logfields.Step(step.name), logfields.Error(err))
			return m.abort(ctx, from, to, err)
		}
		slog.Info("Relocation step completed", logfields.Step(step.name), logfields.Path(to))
		m.opts.Journal.Record(ctx, eventstore.StreamRelocation, eventstore.TypeRelocationStep,
			eventstore.RelocationStep{Step: step.name, From: from, To: to})
	}

	m.deps.Reporter.Say(fmt.Sprintf("%s will now restart for changes to take effect", m.opts.AppName))

	runDir := filepath.Join(to, m.opts.RunDir)
	exe := filepath.Join(runDir, m.opts.Executable)
	var launchErr error
	if err := m.deps.Launcher.Launch(exe, runDir); err != nil {
		launchErr = err
		m.deps.Reporter.Error(err)
	}
	res := m.finish(ctx, ResultSuccess, from, to, launchErr)
	// Close regardless of the launch outcome.
	m.deps.Process.CloseProcess()
	return res
}

func (m *Manager) copyGroup(from, to, rel string, required bool) error {
	found, n, err := copyOptional(filepath.Join(from, rel), filepath.Join(to, rel))
	if err != nil {
		return ferrors.FileSystemError("copy repository files").
			WithCause(err).
			WithContext("group", rel).
			Build()
	}
	if !found && required {
		return ferrors.RelocationError("repository is missing required files").WithContext("group", rel).Build()
	}
	if found {
		slog.Debug("Copied repository files", logfields.Path(rel), logfields.Count(n))
	}
	return nil
}

func (m *Manager) abort(ctx context.Context, from, to string, err error) Result {
	m.deps.Reporter.Error(err)
	return m.finish(ctx, ResultAborted, from, to, err)
}

func (m *Manager) finish(ctx context.Context, res Result, from, to string, err error) Result {
	label := metrics.ResultSuccess
	switch res {
	case ResultPreflightRejected:
		label = metrics.ResultRejected
	case ResultAborted:
		label = metrics.ResultFailed
	}
	m.opts.Recorder.IncRelocationResult(label)

	event := eventstore.RelocationFinished{Result: res.String(), From: from, To: to}
	if err != nil {
		event.Error = ferrors.UserMessage(err)
	}
	m.opts.Journal.Record(ctx, eventstore.StreamRelocation, eventstore.TypeRelocationFinished, event)
	return res
}

// within reports whether path lies strictly below dir.
func within(path, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
