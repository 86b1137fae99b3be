package repository

import (
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/catalogmirror/internal/catalog"
	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/state"
	helpers "git.home.luguber.info/inful/catalogmirror/internal/testutil/testutils"
	"github.com/stretchr/testify/require"
)

func openHandle(t *testing.T, root string) (*Handle, string) {
	t.Helper()
	stateDir := t.TempDir()
	h, err := OpenStateDir(stateDir, root)
	require.NoError(t, err)
	return h, stateDir
}

func TestHandle_ReadReplace(t *testing.T) {
	repo := helpers.NewRepo(t).Catalog(3, helpers.RepoRecord{ID: "alpha", Name: "Alpha"})
	h, _ := openHandle(t, repo.Root)

	require.Nil(t, h.Snapshot())
	require.True(t, h.HasNewData(), "unloaded repository with data is stale")

	snap, err := h.ReadSnapshot()
	require.NoError(t, err)
	require.Nil(t, h.Snapshot(), "ReadSnapshot must not install")

	prev := h.Replace(snap)
	require.Nil(t, prev)
	require.Same(t, snap, h.Snapshot())
	require.False(t, h.HasNewData())

	repo.Catalog(4, helpers.RepoRecord{ID: "alpha", Name: "Alpha"})
	require.True(t, h.HasNewData())
}

func TestHandle_HasNewData_EmptyRepository(t *testing.T) {
	h, _ := openHandle(t, filepath.Join(t.TempDir(), "empty"))
	require.False(t, h.HasNewData())
}

func TestHandle_HasNewData_CorruptCatalog(t *testing.T) {
	repo := helpers.NewRepo(t).WriteFile(CatalogFile, "{")
	h, _ := openHandle(t, repo.Root)
	require.False(t, h.HasNewData())

	changed, err := h.CheckNewData()
	require.Error(t, err)
	require.False(t, changed)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryCatalog))
}

func TestHandle_CheckNewData_NewGeneration(t *testing.T) {
	repo := helpers.NewRepo(t).Catalog(1, helpers.RepoRecord{ID: "alpha", Name: "Alpha"})
	h, _ := openHandle(t, repo.Root)

	changed, err := h.CheckNewData()
	require.NoError(t, err)
	require.True(t, changed)

	snap, err := h.ReadSnapshot()
	require.NoError(t, err)
	h.Replace(snap)
	changed, err = h.CheckNewData()
	require.NoError(t, err)
	require.False(t, changed)
}

func TestHandle_LoadStats(t *testing.T) {
	repo := helpers.NewRepo(t).WriteFile(StatsFile, `{"alpha":{"downloads":3,"rating":2}}`)
	h, _ := openHandle(t, repo.Root)

	require.NoError(t, h.LoadStats())
	s, ok := h.Stats("alpha")
	require.True(t, ok)
	require.Equal(t, 3, s.Downloads)

	repo.WriteFile(StatsFile, "[")
	require.Error(t, h.LoadStats())
	_, ok = h.Stats("alpha")
	require.True(t, ok, "failed refresh keeps previous stats")
}

func TestHandle_SetStoredPath(t *testing.T) {
	repo := helpers.NewRepo(t)
	h, stateDir := openHandle(t, repo.Root)
	target := filepath.Join(t.TempDir(), "moved")

	require.NoError(t, h.SetStoredPath(target))
	require.Equal(t, target, h.StoredPath())
	require.Equal(t, repo.Root, h.Path(), "running process keeps its root")

	loc, err := state.NewLocationStore(stateDir, "").Load()
	require.NoError(t, err)
	require.Equal(t, target, loc)

	reopened, err := OpenStateDir(stateDir, repo.Root)
	require.NoError(t, err)
	require.Equal(t, target, reopened.Path())
}

func TestHandle_DoneLoading(t *testing.T) {
	repo := helpers.NewRepo(t).Catalog(1, helpers.RepoRecord{ID: "alpha", Name: "Alpha"})
	h, _ := openHandle(t, repo.Root)

	var seen *catalog.Snapshot
	h.OnDoneLoading(func(s *catalog.Snapshot) { seen = s })

	snap, err := h.ReadSnapshot()
	require.NoError(t, err)
	h.Replace(snap)
	h.DoneLoading()
	require.Same(t, snap, seen)
}

func TestOpen_EmptyLocation(t *testing.T) {
	_, err := OpenStateDir(t.TempDir(), "")
	require.Error(t, err)
}
