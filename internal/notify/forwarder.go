// Package notify forwards display events to NATS so that other processes can
// show them.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/catalogmirror/internal/daemon/events"
	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/logfields"
)

// Publisher is the part of *nats.Conn the forwarder needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Message is the JSON envelope published for every display event.
type Message struct {
	Kind   string              `json:"kind"`
	Event  events.DisplayEvent `json:"event"`
	SentAt time.Time           `json:"sent_at"`
}

// Forwarder publishes display events on <subject>.<kind>.
type Forwarder struct {
	pub     Publisher
	subject string
}

// NewForwarder creates a forwarder.
func NewForwarder(pub Publisher, subject string) *Forwarder {
	return &Forwarder{pub: pub, subject: subject}
}

// Connect dials the NATS server at url.
func Connect(url, appName string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(appName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, ferrors.NotifyError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", url).
			Build()
	}
	slog.Info("NATS connection established", slog.String("url", url))
	return conn, nil
}

// Forward publishes evt.
func (f *Forwarder) Forward(evt events.DisplayEvent) error {
	subject := f.subject + "." + evt.Kind()
	data, err := json.Marshal(Message{Kind: evt.Kind(), Event: evt, SentAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", evt.Kind(), err)
	}
	if err := f.pub.Publish(subject, data); err != nil {
		return ferrors.NotifyError("failed to publish display event").
			WithCause(err).
			WithContext("subject", subject).
			Build()
	}
	slog.Debug("Forwarded display event", slog.String("subject", subject))
	return nil
}

// Run forwards every display event on bus until ctx is done or the bus closes.
// Publish failures are logged and do not stop the loop.
func (f *Forwarder) Run(ctx context.Context, bus *events.Bus) {
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
			if err := f.Forward(evt); err != nil {
				slog.Warn("Display event not forwarded", logfields.Error(err))
			}
		}
	}
}
