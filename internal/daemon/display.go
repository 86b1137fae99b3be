package daemon

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/catalogmirror/internal/daemon/events"
	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/logfields"
	"git.home.luguber.info/inful/catalogmirror/internal/news"
	"git.home.luguber.info/inful/catalogmirror/internal/repository"
)

// BusDisplay implements the coordinator's Display and Reporter by offering
// events on the bus. It never blocks the caller; slow subscribers drop events.
type BusDisplay struct {
	bus  *events.Bus
	feed *news.Feed
	repo *repository.Handle
}

// NewBusDisplay creates a display publishing on bus.
func NewBusDisplay(bus *events.Bus, feed *news.Feed, repo *repository.Handle) *BusDisplay {
	return &BusDisplay{bus: bus, feed: feed, repo: repo}
}

func (d *BusDisplay) offer(evt events.DisplayEvent) {
	if dropped := d.bus.Offer(evt); dropped > 0 {
		slog.Debug("Display event dropped by slow subscribers",
			slog.String("kind", evt.Kind()), logfields.Count(dropped))
	}
}

// RefreshNews implements coordinator.Display.
func (d *BusDisplay) RefreshNews() {
	evt := events.NewsRefreshed{At: time.Now()}
	if d.feed != nil {
		evt.Unread = d.feed.Unread()
		evt.Total = d.feed.Len()
	}
	d.offer(evt)
}

// DisplayNotification implements coordinator.Display.
func (d *BusDisplay) DisplayNotification(message, actionLabel string, actionID int) {
	d.offer(events.Notification{Message: message, ActionLabel: actionLabel, ActionID: actionID, At: time.Now()})
}

// UpdateStatus implements coordinator.Display.
func (d *BusDisplay) UpdateStatus() {
	d.offer(events.StatusUpdated{At: time.Now()})
}

// NotifyReloaded implements coordinator.Display.
func (d *BusDisplay) NotifyReloaded() {
	evt := events.Reloaded{At: time.Now()}
	if snap := d.repo.Snapshot(); snap != nil {
		evt.Generation = snap.Generation()
		evt.Records = snap.Len()
	}
	d.offer(evt)
}

// Error implements coordinator.Reporter.
func (d *BusDisplay) Error(err error) {
	if err == nil {
		return
	}
	slog.Log(context.Background(), ferrors.SlogLevel(ferrors.GetSeverity(err)), "Reported error", logfields.Error(err))
	d.offer(events.UserError{
		Message:  ferrors.UserMessage(err),
		Category: string(ferrors.GetCategory(err)),
		At:       time.Now(),
	})
}

// Say implements coordinator.Reporter.
func (d *BusDisplay) Say(msg string) {
	slog.Info(msg)
	d.offer(events.UserMessage{Message: msg, At: time.Now()})
}

// LogDisplayEvents logs every display event until ctx is done or the bus closes.
func LogDisplayEvents(ctx context.Context, bus *events.Bus) {
	ch, unsubscribe := events.Subscribe[events.DisplayEvent](bus, 64)
	defer unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			logDisplayEvent(evt)
		}
	}
}

func logDisplayEvent(evt events.DisplayEvent) {
	switch e := evt.(type) {
	case events.Notification:
		slog.Info("Notification", slog.String("message", e.Message),
			slog.String("action_label", e.ActionLabel), slog.Int("action_id", e.ActionID))
	case events.Reloaded:
		slog.Info("Views reloaded", logfields.Generation(e.Generation), logfields.Count(e.Records))
	case events.NewsRefreshed:
		slog.Debug("News refreshed", slog.Int("unread", e.Unread), logfields.Count(e.Total))
	case events.StatusUpdated:
		slog.Debug("Status updated")
	default:
		slog.Debug("Display event", slog.String("kind", evt.Kind()))
	}
}
