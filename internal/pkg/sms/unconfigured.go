package sms

import (
	"context"
	"log/slog"
)

// Unconfigured is the Sender used when no SMS credentials are present.
//
// It records that a message was supposed to go out and returns
// ErrNotConfigured so the caller can surface the delivery failure.
type Unconfigured struct{}

// NewUnconfigured returns the unconfigured fallback sender.
func NewUnconfigured() *Unconfigured {
	return &Unconfigured{}
}

// Send logs the attempted delivery and fails with ErrNotConfigured.
func (*Unconfigured) Send(ctx context.Context, phoneNumber, _ string) error {
	slog.ErrorContext(ctx, "sms supposed to be sent, but no transport is configured", "phone_number", phoneNumber)
	return ErrNotConfigured
}
