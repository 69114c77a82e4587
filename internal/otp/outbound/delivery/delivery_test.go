package delivery

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/arvandi/otpgate/internal/otp/entity"
	"github.com/arvandi/otpgate/internal/pkg/instrument"
	"github.com/arvandi/otpgate/internal/pkg/mail"
)

type captureMail struct {
	sent []mail.Message
	err  error
}

func (c *captureMail) Send(_ context.Context, msg mail.Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func (c *captureMail) Close() error { return nil }

type captureSMS struct {
	to   string
	body string
	err  error
}

func (c *captureSMS) Send(_ context.Context, phoneNumber, body string) error {
	if c.err != nil {
		return c.err
	}
	c.to = phoneNumber
	c.body = body
	return nil
}

func newDelivery(t *testing.T, m *captureMail, s *captureSMS) *Delivery {
	t.Helper()

	d, err := New(Dependency{
		Mail:       m,
		SMS:        s,
		Instrument: instrument.NewNoop(),
		From:       "no-reply@otpgate.test",
	})
	if err != nil {
		t.Fatalf("new delivery: %v", err)
	}
	return d
}

func TestDeliverEmail(t *testing.T) {
	m := &captureMail{}
	d := newDelivery(t, m, &captureSMS{})

	msg := Message{
		User:      entity.User{Email: "jane@example.test", FullName: "Jane"},
		Purpose:   entity.PurposeConfirmEmail,
		Code:      "123456",
		ExpiresAt: time.Unix(1_700_000_000, 0),
	}

	if err := d.Deliver(context.Background(), entity.MethodEmail, msg); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	if len(m.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(m.sent))
	}
	got := m.sent[0]
	if got.To[0] != "jane@example.test" {
		t.Fatalf("to = %v", got.To)
	}
	if !strings.Contains(got.HTMLBody, "123456") {
		t.Fatalf("body does not contain the code: %s", got.HTMLBody)
	}
	if !strings.Contains(got.HTMLBody, "Jane") {
		t.Fatalf("body does not greet the user: %s", got.HTMLBody)
	}
}

func TestDeliverEmailMissingAddress(t *testing.T) {
	d := newDelivery(t, &captureMail{}, &captureSMS{})

	msg := Message{User: entity.User{}, Purpose: entity.PurposeConfirmEmail, Code: "1"}

	err := d.Deliver(context.Background(), entity.MethodEmail, msg)
	if !errors.Is(err, entity.ErrEmailMissing) {
		t.Fatalf("expected ErrEmailMissing, got %v", err)
	}
}

func TestDeliverSMS(t *testing.T) {
	s := &captureSMS{}
	d := newDelivery(t, &captureMail{}, s)

	msg := Message{
		User:    entity.User{PhoneNumber: "+15550100"},
		Purpose: entity.PurposeForgetPassword,
		Code:    "654321",
	}

	if err := d.Deliver(context.Background(), entity.MethodSMS, msg); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	if s.to != "+15550100" {
		t.Fatalf("to = %q", s.to)
	}
	if s.body != "Your passcode: 654321" {
		t.Fatalf("body = %q", s.body)
	}
}

func TestDeliverAuthenticatorRejected(t *testing.T) {
	d := newDelivery(t, &captureMail{}, &captureSMS{})

	err := d.Deliver(context.Background(), entity.MethodAuthenticator, Message{})
	if err == nil {
		t.Fatal("expected error for non-deliverable method")
	}
}
