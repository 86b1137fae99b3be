package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
)

func TestBus_PublishSubscribe(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch, unsubscribe := Subscribe[Reloaded](b, 1)
	defer unsubscribe()

	require.NoError(t, b.Publish(context.Background(), Reloaded{Generation: 123}))

	select {
	case got := <-ch:
		require.Equal(t, int64(123), got.Generation)
	case <-time.After(250 * time.Millisecond):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_DisplayEventSubscriptionReceivesConcreteEvents(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch, unsubscribe := Subscribe[DisplayEvent](b, 2)
	defer unsubscribe()

	require.NoError(t, b.Publish(context.Background(), Notification{Message: "updated", ActionID: 2}))
	require.NoError(t, b.Publish(context.Background(), PollRequested{Reason: "manual"}))
	require.NoError(t, b.Publish(context.Background(), UserMessage{Message: "hi"}))

	require.Equal(t, "notification", (<-ch).Kind())
	require.Equal(t, "message", (<-ch).Kind(), "control events are not display events")
}

func TestBus_PublishBackpressure(t *testing.T) {
	b := NewBus()
	defer b.Close()

	_, unsubscribe := Subscribe[StatusUpdated](b, 0) // unbuffered; no receiver => blocks
	defer unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := b.Publish(ctx, StatusUpdated{})
	require.Error(t, err)

	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, ferrors.CategoryRuntime, classified.Category())
}

func TestBus_OfferDropsWhenFull(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch, unsubscribe := Subscribe[UserError](b, 1)
	defer unsubscribe()

	require.Zero(t, b.Offer(UserError{Message: "one"}))
	require.Equal(t, 1, b.Offer(UserError{Message: "two"}))
	require.Equal(t, "one", (<-ch).Message)
	require.Equal(t, 1, SubscriberCount[UserError](b))
}

func TestBus_Close(t *testing.T) {
	b := NewBus()

	ch, _ := Subscribe[Reloaded](b, 1)
	b.Close()

	// Channel must be closed on bus close.
	_, ok := <-ch
	require.False(t, ok)

	err := b.Publish(context.Background(), Reloaded{})
	require.Error(t, err)
	require.Zero(t, b.Offer(Reloaded{}))
}
