package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"git.home.luguber.info/inful/catalogmirror/internal/catalog"
	"git.home.luguber.info/inful/catalogmirror/internal/config"
	"git.home.luguber.info/inful/catalogmirror/internal/eventstore"
	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/jobs"
	"git.home.luguber.info/inful/catalogmirror/internal/launch"
	"git.home.luguber.info/inful/catalogmirror/internal/logfields"
	"git.home.luguber.info/inful/catalogmirror/internal/metrics"
	"git.home.luguber.info/inful/catalogmirror/internal/opgate"
	"git.home.luguber.info/inful/catalogmirror/internal/repository"
	"git.home.luguber.info/inful/catalogmirror/internal/version"
)

// Deps are the collaborators a Coordinator drives. All fields are required
// except Gate, Launcher and Process, which get defaults.
type Deps struct {
	Repo     *repository.Handle
	Jobs     *jobs.Registry
	Versions VersionSource
	News     NewsSource
	Display  Display
	Reporter Reporter
	Launcher launch.Launcher
	Process  ProcessCloser
	Gate     *opgate.Gate
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Coordinator) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithJournal persists coordinator events.
func WithJournal(j *eventstore.Journal) Option {
	return func(c *Coordinator) { c.journal = j }
}

// WithAugmenter replaces DisplayAugmenter.
func WithAugmenter(f AugmenterFactory) Option {
	return func(c *Coordinator) {
		if f != nil {
			c.augmenter = f
		}
	}
}

// WithAppName sets the program name used in user-facing notifications.
func WithAppName(name string) Option {
	return func(c *Coordinator) {
		if name != "" {
			c.appName = name
		}
	}
}

// WithReloadObserver registers a callback run after every successful reload,
// once views have been refreshed.
func WithReloadObserver(fn func(*catalog.Snapshot)) Option {
	return func(c *Coordinator) { c.observers = append(c.observers, fn) }
}

// Coordinator is the poll-reaction state machine for one repository.
type Coordinator struct {
	repo      *repository.Handle
	jobs      *jobs.Registry
	versions  VersionSource
	news      NewsSource
	display   Display
	reporter  Reporter
	launcher  launch.Launcher
	process   ProcessCloser
	gate      *opgate.Gate
	recorder  metrics.Recorder
	journal   *eventstore.Journal
	augmenter AugmenterFactory
	appName   string
	observers []func(*catalog.Snapshot)

	mu         sync.Mutex
	state      State
	lastAction Action
	lastPoll   time.Time
	lastError  string
	pending    *version.ProgramUpdate
	lists      []*catalog.List
}

// New creates a coordinator and registers its list views with the repository.
func New(deps Deps, opts ...Option) *Coordinator {
	c := &Coordinator{
		repo:      deps.Repo,
		jobs:      deps.Jobs,
		versions:  deps.Versions,
		news:      deps.News,
		display:   deps.Display,
		reporter:  deps.Reporter,
		launcher:  deps.Launcher,
		process:   deps.Process,
		gate:      deps.Gate,
		recorder:  metrics.NoopRecorder{},
		augmenter: DisplayAugmenter,
		appName:   config.DefaultAppName,
		state:     StateIdle,
		lists:     catalog.StandardLists(),
	}
	if c.gate == nil {
		c.gate = opgate.New()
	}
	if c.launcher == nil {
		c.launcher = launch.ExecLauncher{}
	}
	if c.process == nil {
		c.process = ProcessCloserFunc(func() {})
	}
	for _, opt := range opts {
		opt(c)
	}

	c.repo.OnDoneLoading(func(s *catalog.Snapshot) {
		c.mu.Lock()
		defer c.mu.Unlock()
		for _, l := range c.lists {
			l.Refresh(s)
		}
	})
	return c
}

// Gate returns the operation gate shared with relocation.
func (c *Coordinator) Gate() *opgate.Gate { return c.gate }

// OnUpdateAvailable handles one poll tick and returns the action taken.
func (c *Coordinator) OnUpdateAvailable(ctx context.Context) Action {
	release, ok := c.gate.TryEnter("poll")
	if !ok {
		slog.Info("Poll skipped: repository operation in progress", slog.String("holder", c.gate.Holder()))
		c.recorder.IncPollAction(string(ActionSkipped))
		return ActionSkipped
	}
	defer release()

	c.setState(StateChecking)

	c.refreshNews()

	st, err := c.versions.Refresh(ctx)
	action := Decide(st)
	if err != nil {
		// A failed probe is no evidence of new data.
		c.recorder.IncProbeFailure()
		c.report(err)
		action = ActionNoOp
	}

	c.mu.Lock()
	c.state = stateFor(action)
	c.lastAction = action
	c.lastPoll = time.Now()
	c.mu.Unlock()

	slog.Info("Poll decided", logfields.Action(string(action)), slog.Bool("data_changed", st.DataChanged))
	c.recorder.IncPollAction(string(action))

	event := eventstore.PollCompleted{Action: string(action), DataChanged: st.DataChanged}
	if err != nil {
		event.Error = ferrors.UserMessage(err)
	}

	switch action {
	case ActionNoOp:
		if err := c.repo.LoadStats(); err != nil {
			c.report(err)
		}
		c.display.UpdateStatus()
	case ActionAwaitingRestart:
		update := *st.ProgramUpdate
		event.ProgramVersion = update.Version
		c.mu.Lock()
		c.pending = &update
		c.mu.Unlock()
		c.display.DisplayNotification(
			fmt.Sprintf("%s has been updated to version %s", c.appName, update.Version),
			"Restart now",
			RestartActionID,
		)
	case ActionSilentReload:
		c.reload(ctx)
	}

	c.journal.Record(ctx, eventstore.StreamPoll, eventstore.TypePollCompleted, event)
	if action != ActionAwaitingRestart {
		c.setState(StateIdle)
	}
	return action
}

// LoadData reloads the repository. Failures are reported, never returned.
func (c *Coordinator) LoadData() {
	release, ok := c.gate.TryEnter("reload")
	if !ok {
		c.report(ferrors.NewError(ferrors.CategoryRepository, "reload refused: repository operation in progress").
			WithContext("holder", c.gate.Holder()).
			Build())
		return
	}
	defer release()
	c.reload(context.Background())
}

func (c *Coordinator) reload(ctx context.Context) (ok bool) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			ok = false
			c.failReload(ctx, start, ferrors.InternalError("reload panicked").
				WithContext("panic", fmt.Sprint(r)).
				Build())
		}
	}()

	next, err := c.repo.ReadSnapshot()
	if err != nil {
		c.failReload(ctx, start, err)
		return false
	}

	gen := next.Generation()
	augment := c.augmenter(c.repo)
	for _, rec := range next.Records() {
		rec.Attach(augment(rec, gen))
	}

	prev := c.repo.Snapshot()
	prev.Teardown()
	c.repo.Replace(next)

	report := c.jobs.Reattach(next)
	for _, handle := range report.Orphaned {
		if j, found := c.jobs.Get(handle); found {
			c.journal.Record(ctx, eventstore.StreamPoll, eventstore.TypeJobOrphaned,
				eventstore.JobOrphaned{Handle: handle, RecordID: j.RecordID})
		}
	}

	c.repo.DoneLoading()
	c.display.NotifyReloaded()
	for _, fn := range c.observers {
		fn(next)
	}

	elapsed := time.Since(start)
	c.recorder.ObserveReloadDuration(elapsed, true)
	c.recorder.SetRecords(next.Len())
	c.recorder.SetActiveJobs(c.jobs.Len())
	c.recorder.AddOrphanedJobs(len(report.Orphaned))
	c.journal.Record(ctx, eventstore.StreamPoll, eventstore.TypeReloadCompleted, eventstore.ReloadCompleted{
		Generation: gen,
		Records:    next.Len(),
		Rebound:    len(report.Rebound),
		Recovered:  len(report.Recovered),
		Orphaned:   len(report.Orphaned),
		DurationMS: elapsed.Milliseconds(),
	})
	slog.Info("Repository reloaded",
		logfields.Generation(gen),
		logfields.Count(next.Len()),
		slog.Int("orphaned_jobs", len(report.Orphaned)),
		logfields.DurationMS(float64(elapsed.Milliseconds())))
	return true
}

func (c *Coordinator) failReload(ctx context.Context, start time.Time, err error) {
	c.recorder.ObserveReloadDuration(time.Since(start), false)
	c.journal.Record(ctx, eventstore.StreamPoll, eventstore.TypeReloadFailed,
		eventstore.ReloadFailed{Error: ferrors.UserMessage(err)})
	c.report(err)
}

// NotifyButton handles a notification action chosen by the user.
func (c *Coordinator) NotifyButton(actionID int) {
	if actionID != RestartActionID {
		slog.Debug("Ignoring notification action", slog.Int("action_id", actionID))
		return
	}

	c.mu.Lock()
	update := c.pending
	c.mu.Unlock()
	if update == nil {
		c.report(ferrors.NotFoundError("no staged program update to restart into").Build())
		return
	}

	event := eventstore.RestartRequested{Version: update.Version, LaunchPath: update.LaunchPath}
	if err := c.launcher.Launch(update.LaunchPath, filepath.Dir(update.LaunchPath)); err != nil {
		event.Error = ferrors.UserMessage(err)
		c.journal.Record(context.Background(), eventstore.StreamPoll, eventstore.TypeRestartRequested, event)
		c.report(err)
		return
	}
	c.journal.Record(context.Background(), eventstore.StreamPoll, eventstore.TypeRestartRequested, event)

	slog.Info("Restarting into staged build", logfields.Version(update.Version))
	c.Close()
	c.process.CloseProcess()
}

// Close tears down augmentation on the live snapshot ahead of process exit.
func (c *Coordinator) Close() {
	c.repo.Snapshot().Teardown()
}

// PendingUpdate returns the staged build awaiting a restart, if any.
func (c *Coordinator) PendingUpdate() *version.ProgramUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Status summarises the coordinator for status endpoints.
type Status struct {
	State         State                  `json:"state"`
	LastAction    Action                 `json:"last_action,omitempty"`
	LastPoll      time.Time              `json:"last_poll,omitzero"`
	LastError     string                 `json:"last_error,omitempty"`
	Repository    string                 `json:"repository"`
	StoredPath    string                 `json:"stored_path"`
	Generation    int64                  `json:"generation"`
	Records       int                    `json:"records"`
	ActiveJobs    int                    `json:"active_jobs"`
	OrphanedJobs  int                    `json:"orphaned_jobs"`
	PendingUpdate *version.ProgramUpdate `json:"pending_update,omitempty"`
	Lists         map[string]int         `json:"lists"`
}

// Status returns a point-in-time summary.
func (c *Coordinator) Status() Status {
	snap := c.repo.Snapshot()
	st := Status{
		Repository:   c.repo.Path(),
		StoredPath:   c.repo.StoredPath(),
		Records:      snap.Len(),
		ActiveJobs:   c.jobs.Len(),
		OrphanedJobs: len(c.jobs.Orphaned()),
		Lists:        map[string]int{},
	}
	if snap != nil {
		st.Generation = snap.Generation()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	st.State = c.state
	st.LastAction = c.lastAction
	st.LastPoll = c.lastPoll
	st.LastError = c.lastError
	st.PendingUpdate = c.pending
	for _, l := range c.lists {
		st.Lists[l.Name()] = l.Len()
	}
	return st
}

// List returns the records of a named view ("latest", "freeware", "demos", "installed").
func (c *Coordinator) List(name string) ([]*catalog.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.lists {
		if l.Name() == name {
			return append([]*catalog.Record(nil), l.Items()...), true
		}
	}
	return nil, false
}

func (c *Coordinator) refreshNews() {
	if c.news != nil {
		if err := c.news.Reload(); err != nil {
			c.report(err)
		}
	}
	c.display.RefreshNews()
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Coordinator) report(err error) {
	c.mu.Lock()
	c.lastError = ferrors.UserMessage(err)
	c.mu.Unlock()
	c.reporter.Error(err)
}
