package daemon

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/catalogmirror/internal/config"
	"git.home.luguber.info/inful/catalogmirror/internal/coordinator"
	"git.home.luguber.info/inful/catalogmirror/internal/daemon/events"
	"git.home.luguber.info/inful/catalogmirror/internal/eventstore"
	"git.home.luguber.info/inful/catalogmirror/internal/jobs"
	"git.home.luguber.info/inful/catalogmirror/internal/launch"
	"git.home.luguber.info/inful/catalogmirror/internal/logfields"
	"git.home.luguber.info/inful/catalogmirror/internal/metrics"
	"git.home.luguber.info/inful/catalogmirror/internal/news"
	"git.home.luguber.info/inful/catalogmirror/internal/opgate"
	"git.home.luguber.info/inful/catalogmirror/internal/relocation"
	"git.home.luguber.info/inful/catalogmirror/internal/repository"
	"git.home.luguber.info/inful/catalogmirror/internal/retry"
	"git.home.luguber.info/inful/catalogmirror/internal/version"
)

// State directory file names.
const (
	EventsDBFile = "events.db"
	JobsLogFile  = "jobs.log"
)

// Runtime is the assembled component graph for one repository. The daemon
// and the one-shot CLI commands share it.
type Runtime struct {
	Config      *config.Config
	Repo        *repository.Handle
	Jobs        *jobs.Registry
	Feed        *news.Feed
	Versions    *version.Checker
	Bus         *events.Bus
	Display     *BusDisplay
	Store       *eventstore.SQLiteStore
	Journal     *eventstore.Journal
	Metrics     *prom.Registry
	Coordinator *coordinator.Coordinator
	Relocator   *relocation.Manager

	closers []io.Closer
}

// RuntimeOptions override collaborators, mostly for tests.
type RuntimeOptions struct {
	Launcher launch.Launcher
	// DisableEventStore skips opening the SQLite event log.
	DisableEventStore bool
}

// NewRuntime wires every component for cfg. process is asked to end the
// program after a relocation or an accepted restart.
func NewRuntime(cfg *config.Config, process coordinator.ProcessCloser, opts RuntimeOptions) (*Runtime, error) {
	repo, err := repository.OpenStateDir(cfg.StateDir, cfg.Repository.DefaultPath)
	if err != nil {
		return nil, err
	}
	slog.Info("Opened repository", logfields.RepoPath(repo.Path()))

	rt := &Runtime{Config: cfg, Repo: repo, Bus: events.NewBus(), Metrics: prom.NewRegistry()}

	jobLog, jobLogCloser, err := jobs.OpenLog(filepath.Join(cfg.StateDir, JobsLogFile))
	if err != nil {
		slog.Warn("Job log unavailable, using default logger", logfields.Error(err))
		jobLog = slog.Default()
	} else {
		rt.closers = append(rt.closers, jobLogCloser)
	}
	rt.Jobs = jobs.NewRegistry(jobLog)

	rt.Feed = news.NewFeed(repo.Join(repository.NewsFile), news.NewFileReadStore(repo.Join(repository.NewsReadFile)))
	rt.Versions = version.NewChecker(version.RepositoryProbe{Source: repo}, retry.FromConfig(cfg.Probe.Retry))
	rt.Display = NewBusDisplay(rt.Bus, rt.Feed, repo)

	if !opts.DisableEventStore {
		store, err := eventstore.NewSQLiteStore(filepath.Join(cfg.StateDir, EventsDBFile))
		if err != nil {
			slog.Warn("Event store unavailable, journal disabled", logfields.Error(err))
		} else {
			rt.Store = store
			rt.closers = append(rt.closers, store)
		}
	}
	if rt.Store != nil {
		rt.Journal = eventstore.NewJournal(rt.Store)
	}

	rt.Metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheusRecorder(rt.Metrics)

	gate := opgate.New()
	rt.Coordinator = coordinator.New(coordinator.Deps{
		Repo:     repo,
		Jobs:     rt.Jobs,
		Versions: rt.Versions,
		News:     rt.Feed,
		Display:  rt.Display,
		Reporter: rt.Display,
		Launcher: opts.Launcher,
		Process:  process,
		Gate:     gate,
	},
		coordinator.WithRecorder(recorder),
		coordinator.WithJournal(rt.Journal),
		coordinator.WithAppName(cfg.AppName),
	)
	rt.Relocator = relocation.NewManager(relocation.Deps{
		Repo:     repo,
		Jobs:     rt.Jobs,
		Reporter: rt.Display,
		Process:  process,
		Launcher: opts.Launcher,
		Gate:     gate,
	}, relocation.Options{
		AppName:    cfg.AppName,
		Executable: cfg.Repository.Executable,
		RunDir:     cfg.Repository.RunDir,
		Recorder:   recorder,
		Journal:    rt.Journal,
	})
	return rt, nil
}

// Close releases the event store, the job log and the bus.
func (r *Runtime) Close() error {
	r.Coordinator.Close()
	r.Bus.Close()
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
