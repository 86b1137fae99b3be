package eventstore

import (
	"context"
	"encoding/json"
	"log/slog"

	"git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/logfields"
)

// Event type names written by the coordinator and the relocation manager.
const (
	TypePollCompleted      = "PollCompleted"
	TypeReloadCompleted    = "ReloadCompleted"
	TypeReloadFailed       = "ReloadFailed"
	TypeJobOrphaned        = "JobOrphaned"
	TypeRestartRequested   = "RestartRequested"
	TypeRelocationStep     = "RelocationStep"
	TypeRelocationFinished = "RelocationFinished"
)

// Stream names.
const (
	StreamPoll       = "poll"
	StreamRelocation = "relocation"
)

// Journal appends typed payloads to a Store. A Journal with a nil store discards
// everything, so components can hold one unconditionally.
type Journal struct {
	store Store
}

// NewJournal wraps store.
func NewJournal(store Store) *Journal {
	return &Journal{store: store}
}

// Record marshals payload and appends it. Failures are logged, never returned:
// the event log must not fail the operation it describes.
func (j *Journal) Record(ctx context.Context, stream, eventType string, payload any) {
	if j == nil || j.store == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("Cannot encode event",
			slog.String("event_type", eventType),
			logfields.Error(errors.WrapError(err, errors.CategoryEventStore, ErrMarshalPayloadFailed.Message()).Build()))
		return
	}
	if err := j.store.Append(ctx, stream, eventType, data, nil); err != nil {
		slog.Warn("Cannot append event", slog.String("event_type", eventType), logfields.Error(err))
	}
}

// Enabled reports whether events are persisted.
func (j *Journal) Enabled() bool { return j != nil && j.store != nil }
