package eventstore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_AppendAndQuery(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, StreamPoll, TypePollCompleted, []byte(`{"action":"noop"}`), nil))
	require.NoError(t, store.Append(ctx, StreamRelocation, TypeRelocationStep, []byte(`{"step":"import"}`), map[string]string{"run": "1"}))
	require.NoError(t, store.Append(ctx, StreamPoll, TypeReloadCompleted, nil, nil))

	events, err := store.GetByStream(ctx, StreamPoll)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, TypePollCompleted, events[0].Type())
	require.JSONEq(t, `{}`, string(events[1].Payload()))

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, TypeReloadCompleted, recent[0].Type())
	require.Equal(t, "1", recent[1].Metadata()["run"])

	ranged, err := store.GetRange(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, ranged, 3)
}

func TestSQLiteStore_PersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), StreamPoll, TypePollCompleted, []byte(`{}`), nil))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	events, err := reopened.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestJournal_Record(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	j := NewJournal(store)
	require.True(t, j.Enabled())
	j.Record(context.Background(), StreamPoll, TypeReloadCompleted, ReloadCompleted{Generation: 7, Records: 3, Orphaned: 1})

	events, err := store.GetByStream(context.Background(), StreamPoll)
	require.NoError(t, err)
	require.Len(t, events, 1)
	var got ReloadCompleted
	require.NoError(t, json.Unmarshal(events[0].Payload(), &got))
	require.Equal(t, int64(7), got.Generation)

	var nilJournal *Journal
	nilJournal.Record(context.Background(), StreamPoll, TypePollCompleted, PollCompleted{})
	require.False(t, nilJournal.Enabled())
	NewJournal(nil).Record(context.Background(), StreamPoll, TypePollCompleted, PollCompleted{})
}
