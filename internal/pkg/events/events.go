// Package events publishes audit events emitted by the passcode lifecycle.
//
// Publishing is fire-and-forget observability, never part of the request
// contract: a broker outage must not fail a send or verify. When no broker
// is configured the Noop publisher stands in, so callers never hold a nil
// publisher.
package events

import (
	"context"
	"encoding/json"
	"io"
	"time"
)

// Event is a JSON-serializable audit record.
type Event struct {
	// Name identifies the event kind (e.g. "passcode.issued").
	Name string `json:"name"`
	// At is the event time.
	At time.Time `json:"at"`
	// Payload carries event-specific fields.
	Payload map[string]any `json:"payload,omitempty"`
}

// Publisher sends events to a broker subject.
type Publisher interface {
	io.Closer
	// Publish sends the event to the subject.
	Publish(ctx context.Context, subject string, ev Event) error
}

func encode(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}

// Noop is a Publisher that drops every event.
type Noop struct{}

// NewNoop returns a publisher that drops every event.
func NewNoop() *Noop {
	return &Noop{}
}

// Publish drops the event.
func (*Noop) Publish(context.Context, string, Event) error {
	return nil
}

// Close is a no-op.
func (*Noop) Close() error {
	return nil
}
