// Package sms abstracts an SMS provider.
//
// The production implementation posts to an HTTP SMS gateway. Deployments
// without SMS credentials get the Unconfigured sender instead of a nil
// client: sends are reported as a typed failure and logged, never a nil
// dereference.
package sms

import (
	"context"
	"errors"
)

// ErrNotConfigured indicates no SMS transport is configured.
var ErrNotConfigured = errors.New("sms: transport not configured")

// Sender delivers a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, phoneNumber, body string) error
}
