package news

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	helpers "git.home.luguber.info/inful/catalogmirror/internal/testutil/testutils"
)

func stagedFeed(t *testing.T) (*Feed, *FileReadStore) {
	t.Helper()
	repo := helpers.NewRepo(t).News(
		helpers.RepoNewsItem{ID: "n1", Date: 1700000000, Subject: "Hello", Body: "**bold** news"},
		helpers.RepoNewsItem{ID: "n2", Date: 1700086400, Subject: "Second", Body: "plain"},
		helpers.RepoNewsItem{ID: "n3", Date: 1700172800, Subject: "Third", Body: ""},
	)
	store := NewFileReadStore(filepath.Join(repo.Root, "data", "news_read.json"))
	f := NewFeed(filepath.Join(repo.Root, "data", "news.json"), store)
	require.NoError(t, f.Reload())
	return f, store
}

func TestFeed_Reload(t *testing.T) {
	f, _ := stagedFeed(t)
	items := f.Items()
	require.Len(t, items, 3)
	require.Equal(t, "2023-11-14", items[0].DateText)
	require.Contains(t, items[0].BodyHTML, "<strong>bold</strong>")
	require.Equal(t, 3, f.Unread())
}

func TestFeed_MissingNewsFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	f := NewFeed(filepath.Join(dir, "news.json"), NewFileReadStore(filepath.Join(dir, "read.json")))
	require.NoError(t, f.Reload())
	require.Zero(t, f.Len())
	require.NoError(t, f.MarkAllAsRead())
}

func TestFeed_MarkAsReadThenAll(t *testing.T) {
	f, store := stagedFeed(t)

	require.NoError(t, f.MarkAsRead(1))
	persisted, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"n2": true}, persisted)
	assertMirrorMatches(t, f, persisted)

	require.NoError(t, f.MarkAllAsRead())
	persisted, err = store.Load()
	require.NoError(t, err)
	require.Len(t, persisted, 3)
	assertMirrorMatches(t, f, persisted)
	require.Zero(t, f.Unread())

	// Flags survive a reload.
	require.NoError(t, f.Reload())
	require.Zero(t, f.Unread())
}

func TestFeed_ItemsWithoutOrDuplicateIDs(t *testing.T) {
	repo := helpers.NewRepo(t).News(
		helpers.RepoNewsItem{Date: 1700000000, Subject: "Untitled"},
		helpers.RepoNewsItem{Date: 1700000000, Subject: "Untitled"},
		helpers.RepoNewsItem{Date: 1700086400, Subject: "Other"},
		helpers.RepoNewsItem{ID: "dup", Date: 1700172800, Subject: "A"},
		helpers.RepoNewsItem{ID: "dup", Date: 1700259200, Subject: "B"},
		helpers.RepoNewsItem{ID: "dup#2", Date: 1700345600, Subject: "C"},
	)
	store := NewFileReadStore(filepath.Join(repo.Root, "data", "news_read.json"))
	f := NewFeed(filepath.Join(repo.Root, "data", "news.json"), store)
	require.NoError(t, f.Reload())

	ids := map[string]bool{}
	for _, it := range f.Items() {
		require.NotEmpty(t, it.ID)
		ids[it.ID] = true
	}
	require.Len(t, ids, 6)

	readFlags := func() []bool {
		var out []bool
		for _, it := range f.Items() {
			out = append(out, it.Read)
		}
		return out
	}

	require.NoError(t, f.MarkAsRead(0))
	require.NoError(t, f.MarkAsRead(3))
	want := []bool{true, false, false, true, false, false}
	require.Equal(t, want, readFlags())

	require.NoError(t, f.Reload())
	require.Equal(t, want, readFlags())
	persisted, err := store.Load()
	require.NoError(t, err)
	assertMirrorMatches(t, f, persisted)
}

func TestFeed_MarkAsReadOutOfRange(t *testing.T) {
	f, _ := stagedFeed(t)
	require.Error(t, f.MarkAsRead(3))
	require.Error(t, f.MarkAsRead(-1))
	require.Equal(t, 3, f.Unread())
}

type failingStore struct{}

func (failingStore) Load() (map[string]bool, error) { return map[string]bool{}, nil }
func (failingStore) Save(map[string]bool) error     { return errors.New("disk full") }

func TestFeed_PersistFailureLeavesMirror(t *testing.T) {
	f, _ := stagedFeed(t)
	f.store = failingStore{}

	require.Error(t, f.MarkAsRead(0))
	require.Error(t, f.MarkAllAsRead())
	require.Equal(t, 3, f.Unread())
}

func assertMirrorMatches(t *testing.T, f *Feed, persisted map[string]bool) {
	t.Helper()
	for _, it := range f.Items() {
		require.Equal(t, persisted[it.ID], it.Read, "item %s", it.ID)
	}
}
