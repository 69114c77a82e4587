package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

var (
	// ErrNATSURLRequired is returned when the NATS server URL is missing.
	ErrNATSURLRequired = errors.New("events: nats url is required")
	// ErrSubjectRequired is returned when the subject is empty.
	ErrSubjectRequired = errors.New("events: subject is required")
)

// NATS is a Publisher backed by a NATS connection.
type NATS struct {
	conn *nats.Conn
}

// NATSConfig configures the NATS publisher.
type NATSConfig struct {
	// URL is the NATS server address.
	URL string
	// Options are passed to the NATS client.
	Options []nats.Option
}

// NewNATS connects to NATS and returns a publisher.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("events: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

// Publish sends the event to a NATS subject.
func (n *NATS) Publish(ctx context.Context, subject string, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if subject == "" {
		return ErrSubjectRequired
	}

	body, err := encode(ev)
	if err != nil {
		return err
	}

	return n.conn.Publish(subject, body)
}

// Close drains and closes the NATS connection.
func (n *NATS) Close() error {
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
		return err
	}
	n.conn.Close()
	return nil
}
