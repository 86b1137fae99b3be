package repository

import (
	"log/slog"
	"path/filepath"
	"slices"
	"sync"

	"git.home.luguber.info/inful/catalogmirror/internal/catalog"
	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/logfields"
	"git.home.luguber.info/inful/catalogmirror/internal/state"
)

// LocationStore persists the authoritative repository path.
type LocationStore interface {
	Load() (string, error)
	Store(path string) error
}

// Handle owns the on-disk repository path and the live snapshot.
//
// The handle keeps operating on the root it was opened with. SetStoredPath only changes
// which root the next process will open; the running process is expected to relaunch.
type Handle struct {
	mu         sync.RWMutex
	location   LocationStore
	root       string
	storedPath string
	snapshot   *catalog.Snapshot
	stats      catalog.Stats
	listeners  []func(*catalog.Snapshot)
}

// Open resolves the stored repository location and returns a handle without loading data.
func Open(location LocationStore) (*Handle, error) {
	root, err := location.Load()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRepository, "resolve repository location").Build()
	}
	if root == "" {
		return nil, ferrors.ConfigError("no repository location configured").Build()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRepository, "resolve repository path").Build()
	}
	return &Handle{location: location, root: abs, storedPath: abs, stats: catalog.Stats{}}, nil
}

// OpenStateDir is Open backed by the JSON location document in stateDir.
func OpenStateDir(stateDir, defaultPath string) (*Handle, error) {
	return Open(state.NewLocationStore(stateDir, defaultPath))
}

// Path returns the repository root this process operates on.
func (h *Handle) Path() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.root
}

// Join returns a path inside the repository.
func (h *Handle) Join(rel ...string) string {
	return filepath.Join(append([]string{h.Path()}, rel...)...)
}

// StoredPath returns the path recorded as the official repository.
func (h *Handle) StoredPath() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.storedPath
}

// Snapshot returns the live snapshot, nil before the first load.
func (h *Handle) Snapshot() *catalog.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshot
}

// ReadSnapshot loads a snapshot from disk without installing it.
func (h *Handle) ReadSnapshot() (*catalog.Snapshot, error) {
	return catalog.Load(h.Join(CatalogFile))
}

// Replace installs next as the live snapshot and returns the one it replaced.
func (h *Handle) Replace(next *catalog.Snapshot) *catalog.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.snapshot
	h.snapshot = next
	return prev
}

// HasNewData reports whether the on-disk catalog carries a generation other than the live one.
// An unreadable catalog reports false; use CheckNewData to see the error.
func (h *Handle) HasNewData() bool {
	changed, err := h.CheckNewData()
	if err != nil {
		slog.Warn("Cannot read catalog generation", logfields.RepoPath(h.Path()), logfields.Error(err))
		return false
	}
	return changed
}

// CheckNewData is HasNewData with the catalog read error returned.
func (h *Handle) CheckNewData() (bool, error) {
	gen, err := catalog.ReadGeneration(h.Join(CatalogFile))
	if err != nil {
		return false, err
	}
	live := h.Snapshot()
	if live == nil {
		return gen != 0, nil
	}
	return gen != live.Generation(), nil
}

// LoadStats refreshes display statistics without touching the snapshot.
func (h *Handle) LoadStats() error {
	stats, err := catalog.LoadStats(h.Join(StatsFile))
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.stats = stats
	h.mu.Unlock()
	return nil
}

// Stats returns the statistics for a record.
func (h *Handle) Stats(id string) (catalog.RecordStats, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.stats[id]
	return s, ok
}

// SetStoredPath makes path the official repository from now on.
func (h *Handle) SetStoredPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRepository, "resolve new repository path").Build()
	}
	if err := h.location.Store(abs); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRepository, "store repository location").
			WithContext("path", abs).
			Build()
	}
	h.mu.Lock()
	h.storedPath = abs
	h.mu.Unlock()
	slog.Info("Repository location stored", logfields.RepoPath(abs))
	return nil
}

// OnDoneLoading registers a callback invoked by DoneLoading with the live snapshot.
func (h *Handle) OnDoneLoading(fn func(*catalog.Snapshot)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// DoneLoading propagates the live snapshot to registered views.
func (h *Handle) DoneLoading() {
	h.mu.RLock()
	snap := h.snapshot
	listeners := slices.Clone(h.listeners)
	h.mu.RUnlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
