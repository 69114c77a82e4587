// Package delivery dispatches issued passcodes to users over email or
// SMS. The authenticator method never reaches this package.
package delivery

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/arvandi/otpgate/internal/otp/entity"
	"github.com/arvandi/otpgate/internal/pkg/instrument"
	"github.com/arvandi/otpgate/internal/pkg/mail"
	"github.com/arvandi/otpgate/internal/pkg/sms"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Message carries everything a transport needs to render and send one
// passcode notification.
type Message struct {
	User      entity.User
	Purpose   entity.Purpose
	Code      string
	ExpiresAt time.Time
}

type Delivery struct {
	mail      mail.Mail
	sms       sms.Sender
	ins       instrument.Instrumentation
	from      string
	templates map[entity.Purpose]emailTemplate
}

type Dependency struct {
	Mail       mail.Mail
	SMS        sms.Sender
	Instrument instrument.Instrumentation
	From       string
}

// New builds the dispatcher and verifies every known purpose has an
// email template, so a missing one fails at startup instead of at send
// time.
func New(dep Dependency) (*Delivery, error) {
	purposes := []entity.Purpose{
		entity.PurposeConfirmEmail,
		entity.PurposeSetPassword,
		entity.PurposeForgetPassword,
		entity.PurposeChangeEmail,
	}

	missing := lo.Filter(purposes, func(p entity.Purpose, _ int) bool {
		_, ok := emailTemplates[p]
		return !ok
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("delivery: no email template for purposes %v", missing)
	}

	return &Delivery{
		mail:      dep.Mail,
		sms:       dep.SMS,
		ins:       dep.Instrument,
		from:      dep.From,
		templates: emailTemplates,
	}, nil
}

func (d *Delivery) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return d.ins.Tracer("otp.outbound.delivery").Start(ctx, name)
}

func (d *Delivery) Deliver(ctx context.Context, method entity.Method, msg Message) (err error) {
	ctx, span := d.startSpan(ctx, "Deliver")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	switch method {
	case entity.MethodEmail:
		err = d.sendEmail(ctx, msg)
	case entity.MethodSMS:
		err = d.sendSMS(ctx, msg)
	default:
		err = fmt.Errorf("delivery: method %s is not deliverable", method)
	}

	return err
}

func (d *Delivery) sendEmail(ctx context.Context, msg Message) error {
	if msg.User.Email == "" {
		return entity.ErrEmailMissing
	}

	tpl := d.templates[msg.Purpose]

	body, err := d.render(tpl.html, map[string]any{
		"full_name":  msg.User.FullName,
		"code":       msg.Code,
		"expires_at": msg.ExpiresAt.UTC().Format(time.RFC1123),
	})
	if err != nil {
		return err
	}

	return d.mail.Send(ctx, mail.Message{
		From:     d.from,
		To:       []string{msg.User.Email},
		Subject:  tpl.subject,
		HTMLBody: body,
	})
}

func (d *Delivery) sendSMS(ctx context.Context, msg Message) error {
	if msg.User.PhoneNumber == "" {
		return entity.ErrPhoneNumberMissing
	}

	body := fmt.Sprintf("Your passcode: %s", msg.Code)
	return d.sms.Send(ctx, msg.User.PhoneNumber, body)
}

func (d *Delivery) render(tpl string, data map[string]any) (string, error) {
	t, err := template.New("email").Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
