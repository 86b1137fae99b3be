// Package daemon runs the catalog mirror as a long-lived process: it owns the
// coordinator, schedules polls, watches the repository and serves the admin API.
package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/catalogmirror/internal/config"
	"git.home.luguber.info/inful/catalogmirror/internal/coordinator"
	"git.home.luguber.info/inful/catalogmirror/internal/daemon/events"
	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/logfields"
	"git.home.luguber.info/inful/catalogmirror/internal/notify"
	"git.home.luguber.info/inful/catalogmirror/internal/repository"
)

// Daemon serialises every poll and user action on a single owner goroutine.
type Daemon struct {
	cfg *config.Config
	rt  *Runtime

	scheduler *Scheduler
	watcher   *DataWatcher
	admin     *AdminServer
	nats      *nats.Conn

	polls       <-chan events.PollRequested
	unsubscribe func()
	actions     chan func(context.Context)

	mu        sync.Mutex
	cancel    context.CancelFunc
	running   bool
	closeOnce sync.Once
	stopped   chan struct{}
}

// New assembles a daemon for cfg without starting anything.
func New(cfg *config.Config, opts RuntimeOptions) (*Daemon, error) {
	d := &Daemon{
		cfg:     cfg,
		actions: make(chan func(context.Context)),
		stopped: make(chan struct{}),
	}
	rt, err := NewRuntime(cfg, coordinator.ProcessCloserFunc(d.CloseProcess), opts)
	if err != nil {
		return nil, err
	}
	d.rt = rt
	// A buffer of one coalesces requests that arrive while a poll is running.
	d.polls, d.unsubscribe = events.Subscribe[events.PollRequested](rt.Bus, 1)

	if d.scheduler, err = NewScheduler(); err != nil {
		_ = rt.Close()
		return nil, err
	}
	if cfg.Admin.Listen != "" {
		d.admin = NewAdminServer(cfg.Admin.Listen, d)
	}
	return d, nil
}

// Runtime exposes the component graph.
func (d *Daemon) Runtime() *Runtime { return d.rt }

// Run starts every component, performs the initial load and processes
// requests until ctx is canceled or the process is asked to close.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		cancel()
		return ferrors.DaemonError("daemon already running").Build()
	}
	d.running = true
	d.cancel = cancel
	d.mu.Unlock()
	defer close(d.stopped)
	defer d.shutdown()

	go LogDisplayEvents(ctx, d.rt.Bus)
	if err := d.startNotify(ctx); err != nil {
		slog.Warn("Display notifications will not be forwarded", logfields.Error(err))
	}

	d.rt.Coordinator.LoadData()

	if err := d.schedulePolls(); err != nil {
		return err
	}
	d.scheduler.Start(ctx)

	if d.cfg.Poll.Watch {
		if err := d.startWatcher(ctx); err != nil {
			slog.Warn("Repository watcher disabled", logfields.Error(err))
		}
	}
	if d.admin != nil {
		if err := d.admin.Start(ctx); err != nil {
			return err
		}
	}

	slog.Info("Daemon started", logfields.RepoPath(d.rt.Repo.Path()))
	for {
		select {
		case <-ctx.Done():
			slog.Info("Daemon stopping")
			return nil
		case req, ok := <-d.polls:
			if !ok {
				return nil
			}
			slog.Debug("Poll requested", slog.String("reason", req.Reason))
			d.rt.Coordinator.OnUpdateAvailable(ctx)
		case fn := <-d.actions:
			fn(ctx)
		}
	}
}

// RequestPoll asks for a poll outside the schedule. It never blocks; a
// request made while another is pending is merged into it.
func (d *Daemon) RequestPoll(reason string) {
	d.rt.Bus.Offer(events.PollRequested{Reason: reason, RequestedAt: time.Now()})
}

// Do runs fn on the owner goroutine and waits for it to return.
func (d *Daemon) Do(ctx context.Context, fn func(context.Context)) error {
	done := make(chan struct{})
	wrapped := func(ctx context.Context) {
		defer close(done)
		fn(ctx)
	}
	select {
	case d.actions <- wrapped:
	case <-d.stopped:
		return ferrors.DaemonError("daemon is not running").Build()
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CloseProcess ends Run. Relocation and an accepted restart call it.
func (d *Daemon) CloseProcess() {
	d.mu.Lock()
	cancel := d.cancel
	d.mu.Unlock()
	if cancel != nil {
		slog.Info("Process close requested")
		cancel()
	}
}

func (d *Daemon) schedulePolls() error {
	task := func() { d.RequestPoll("schedule") }
	var err error
	if d.cfg.Poll.Schedule != "" {
		_, err = d.scheduler.ScheduleCron("poll", d.cfg.Poll.Schedule, task)
	} else {
		_, err = d.scheduler.ScheduleEvery("poll", d.cfg.PollInterval(), task)
	}
	if err != nil {
		return ferrors.ConfigError("invalid poll schedule").WithCause(err).Build()
	}
	return nil
}

func (d *Daemon) startWatcher(ctx context.Context) error {
	dirs := []string{d.rt.Repo.Join(repository.DataDir), d.rt.Repo.Join(repository.RunDir)}
	w, err := NewDataWatcher(dirs, d.cfg.PollDebounce(), d.RequestPoll)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	d.watcher = w
	return nil
}

func (d *Daemon) startNotify(ctx context.Context) error {
	if d.cfg.Notify.NATSURL == "" {
		return nil
	}
	conn, err := notify.Connect(d.cfg.Notify.NATSURL, d.cfg.AppName)
	if err != nil {
		return err
	}
	d.nats = conn
	go notify.NewForwarder(conn, d.cfg.Notify.Subject).Run(ctx, d.rt.Bus)
	return nil
}

func (d *Daemon) shutdown() {
	d.closeOnce.Do(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if d.admin != nil {
			if err := d.admin.Stop(stopCtx); err != nil {
				slog.Warn("Admin server shutdown", logfields.Error(err))
			}
		}
		if d.watcher != nil {
			d.watcher.Stop()
		}
		if err := d.scheduler.Stop(stopCtx); err != nil {
			slog.Warn("Scheduler shutdown", logfields.Error(err))
		}
		d.unsubscribe()
		if d.nats != nil {
			if err := d.nats.Drain(); err != nil {
				d.nats.Close()
			}
		}
		if err := d.rt.Close(); err != nil {
			slog.Warn("Runtime shutdown", logfields.Error(err))
		}
		if d.cancel != nil {
			d.cancel()
		}
	})
}
