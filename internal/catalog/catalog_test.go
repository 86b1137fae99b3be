package catalog

import (
	"os"
	"path/filepath"
	"testing"

	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []*Record {
	return []*Record{
		{ID: "alpha", Name: "Alpha", Installed: true},
		{ID: "beta", Name: "Beta", Demo: true},
		{ID: "gamma", Name: "Gamma", Freeware: true},
	}
}

func TestNewSnapshot(t *testing.T) {
	s, err := NewSnapshot(4, sampleRecords())
	require.NoError(t, err)
	require.Equal(t, int64(4), s.Generation())
	require.Equal(t, 3, s.Len())

	r, ok := s.Lookup("beta")
	require.True(t, ok)
	require.Equal(t, "Beta", r.Name)

	_, ok = s.Lookup("delta")
	require.False(t, ok)

	ids := []string{}
	for _, r := range s.Records() {
		ids = append(ids, r.ID)
	}
	require.Equal(t, []string{"alpha", "beta", "gamma"}, ids)
}

func TestNewSnapshot_RejectsBadIdentifiers(t *testing.T) {
	_, err := NewSnapshot(1, []*Record{{ID: "a"}, {ID: "a"}})
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryCatalog))

	_, err = NewSnapshot(1, []*Record{{Name: "nameless"}})
	require.Error(t, err)
}

func TestSnapshotTeardownIsIdempotent(t *testing.T) {
	s, err := NewSnapshot(1, sampleRecords())
	require.NoError(t, err)

	r, _ := s.Lookup("alpha")
	r.Attach(&Augment{Generation: 1})
	require.True(t, r.Augmented())

	s.Teardown()
	s.Teardown()
	for _, r := range s.Records() {
		require.False(t, r.Augmented())
	}

	var nilSnap *Snapshot
	nilSnap.Teardown()
	require.Zero(t, nilSnap.Len())
}

func TestLoadAndWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, Write(path, 9, sampleRecords()))

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, int64(9), s.Generation())
	require.Equal(t, 3, s.Len())

	gen, err := ReadGeneration(path)
	require.NoError(t, err)
	require.Equal(t, int64(9), gen)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryRepository))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = Load(bad)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryCatalog))

	gen, err := ReadGeneration(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	require.Zero(t, gen)
}

func TestLoadStats(t *testing.T) {
	dir := t.TempDir()
	stats, err := LoadStats(filepath.Join(dir, "stats.json"))
	require.NoError(t, err)
	require.Empty(t, stats)

	path := filepath.Join(dir, "stats.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"alpha":{"downloads":12,"rating":4.5}}`), 0o644))
	stats, err = LoadStats(path)
	require.NoError(t, err)
	require.Equal(t, 12, stats["alpha"].Downloads)
	require.InDelta(t, 4.5, stats["alpha"].Rating, 0.001)
}

func TestStandardLists(t *testing.T) {
	s, err := NewSnapshot(1, sampleRecords())
	require.NoError(t, err)

	counts := map[string]int{}
	for _, l := range StandardLists() {
		l.Refresh(s)
		counts[l.Name()] = l.Len()
	}
	require.Equal(t, map[string]int{"latest": 3, "freeware": 2, "demos": 1, "installed": 1}, counts)
}

func TestInstalledListOrderedByName(t *testing.T) {
	s, err := NewSnapshot(1, []*Record{
		{ID: "z", Name: "zeta", Installed: true},
		{ID: "e", Name: "Épée", Installed: true},
		{ID: "a", Name: "alpha", Installed: true},
		{ID: "b", Name: "Beta"},
	})
	require.NoError(t, err)

	l := NewNameOrderedList("installed", InstalledPicker)
	l.Refresh(s)
	var names []string
	for _, r := range l.Items() {
		names = append(names, r.Name)
	}
	require.Equal(t, []string{"alpha", "Épée", "zeta"}, names)

	latest := NewList("latest", nil)
	latest.Refresh(s)
	require.Equal(t, "zeta", latest.Items()[0].Name)
}
