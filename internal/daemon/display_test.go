package daemon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/catalogmirror/internal/daemon/events"
	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/news"
	"git.home.luguber.info/inful/catalogmirror/internal/repository"
	helpers "git.home.luguber.info/inful/catalogmirror/internal/testutil/testutils"
)

func newTestDisplay(t *testing.T) (*BusDisplay, <-chan events.DisplayEvent) {
	t.Helper()
	repo := helpers.NewRepo(t).Catalog(3, helpers.RepoRecord{ID: "alpha", Name: "Alpha"}).
		News(helpers.RepoNewsItem{ID: "n1", Date: 1700000000, Subject: "Hi", Body: "x"})
	h, err := repository.OpenStateDir(t.TempDir(), repo.Root)
	require.NoError(t, err)
	snap, err := h.ReadSnapshot()
	require.NoError(t, err)
	h.Replace(snap)

	feed := news.NewFeed(h.Join(repository.NewsFile), news.NewFileReadStore(h.Join(repository.NewsReadFile)))
	require.NoError(t, feed.Reload())

	bus := events.NewBus()
	t.Cleanup(bus.Close)
	ch, _ := events.Subscribe[events.DisplayEvent](bus, 8)
	return NewBusDisplay(bus, feed, h), ch
}

func next(t *testing.T, ch <-chan events.DisplayEvent) events.DisplayEvent {
	t.Helper()
	select {
	case evt := <-ch:
		return evt
	case <-time.After(time.Second):
		t.Fatal("no display event")
		return nil
	}
}

func TestBusDisplay_Events(t *testing.T) {
	d, ch := newTestDisplay(t)

	d.RefreshNews()
	refreshed, ok := next(t, ch).(events.NewsRefreshed)
	require.True(t, ok)
	require.Equal(t, 1, refreshed.Unread)
	require.Equal(t, 1, refreshed.Total)

	d.NotifyReloaded()
	reloaded, ok := next(t, ch).(events.Reloaded)
	require.True(t, ok)
	require.Equal(t, int64(3), reloaded.Generation)
	require.Equal(t, 1, reloaded.Records)

	d.DisplayNotification("updated", "Restart now", 2)
	n, ok := next(t, ch).(events.Notification)
	require.True(t, ok)
	require.Equal(t, 2, n.ActionID)

	d.UpdateStatus()
	_, ok = next(t, ch).(events.StatusUpdated)
	require.True(t, ok)
}

func TestBusDisplay_Reporter(t *testing.T) {
	d, ch := newTestDisplay(t)

	d.Error(ferrors.RelocationError("cannot change directories while downloads are in progress").Build())
	ue, ok := next(t, ch).(events.UserError)
	require.True(t, ok)
	require.Equal(t, string(ferrors.CategoryRelocation), ue.Category)
	require.Contains(t, ue.Message, "downloads are in progress")

	d.Error(nil)
	d.Say("catalogmirror will now restart for changes to take effect")
	msg, ok := next(t, ch).(events.UserMessage)
	require.True(t, ok)
	require.Contains(t, msg.Message, "restart")
}
