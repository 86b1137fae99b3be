package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/catalogmirror/internal/logfields"
)

// DataWatcher triggers an early poll when repository files change on disk.
// Bursts of events within the debounce window collapse into one trigger.
type DataWatcher struct {
	dirs         []string
	trigger      func(reason string)
	watcher      *fsnotify.Watcher
	stopChan     chan struct{}
	stopOnce     sync.Once
	pendingChan  chan struct{}
	debounceTime time.Duration
}

// NewDataWatcher creates a watcher over dirs. Missing directories are skipped at Start.
func NewDataWatcher(dirs []string, debounce time.Duration, trigger func(reason string)) (*DataWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &DataWatcher{
		dirs:         dirs,
		trigger:      trigger,
		watcher:      watcher,
		stopChan:     make(chan struct{}),
		pendingChan:  make(chan struct{}, 1),
		debounceTime: debounce,
	}, nil
}

// Start begins watching. It fails only when no directory could be watched.
func (w *DataWatcher) Start(ctx context.Context) error {
	watched := 0
	for _, dir := range w.dirs {
		if _, err := os.Stat(dir); err != nil {
			slog.Debug("Skipping missing watch directory", logfields.Path(dir))
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			slog.Warn("Failed to watch directory", logfields.Path(dir), logfields.Error(err))
			continue
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("no repository directories could be watched")
	}
	slog.Info("Starting repository watcher", logfields.Count(watched))

	go w.watchLoop(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (w *DataWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	})
}

func (w *DataWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Repository change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			select {
			case w.pendingChan <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Repository watcher error", logfields.Error(err))
		}
	}
}

func (w *DataWatcher) debounceLoop(ctx context.Context) {
	var timer *time.Timer
	stop := func() {
		if timer != nil {
			timer.Stop()
		}
	}
	for {
		select {
		case <-ctx.Done():
			stop()
			return
		case <-w.stopChan:
			stop()
			return
		case <-w.pendingChan:
			stop()
			timer = time.AfterFunc(w.debounceTime, func() { w.trigger("watch") })
		}
	}
}
