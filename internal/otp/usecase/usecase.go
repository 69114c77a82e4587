package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arvandi/otpgate/internal/otp/entity"
	"github.com/arvandi/otpgate/internal/otp/outbound/delivery"
	"github.com/arvandi/otpgate/internal/pkg/clock"
	"github.com/arvandi/otpgate/internal/pkg/config"
	"github.com/arvandi/otpgate/internal/pkg/events"
	"github.com/arvandi/otpgate/internal/pkg/goerror"
	"github.com/arvandi/otpgate/internal/pkg/goroutine"
	"github.com/arvandi/otpgate/internal/pkg/instrument"
	"github.com/arvandi/otpgate/internal/pkg/lock"
	"github.com/arvandi/otpgate/internal/pkg/passcode"
	"github.com/arvandi/otpgate/internal/pkg/secrets"
	"github.com/arvandi/otpgate/internal/pkg/uid"
	"github.com/arvandi/otpgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const (
	subjectIssued   = "otp.passcode.issued"
	subjectConsumed = "otp.passcode.consumed"
)

type repoDB interface {
	GetUserContactInfo(ctx context.Context, id int64) (*entity.UserContactInfo, error)
	GetActivePasscode(ctx context.Context, userID int64, m entity.Method, p entity.Purpose) (*entity.Passcode, error)
	CreatePasscode(ctx context.Context, data entity.NewPasscode) error
	UpdatePasscodeStatus(ctx context.Context, id int64, from, to entity.Status) (bool, error)
}

type repoDelivery interface {
	Deliver(ctx context.Context, method entity.Method, msg delivery.Message) error
}

type Usecase struct {
	repoDB       repoDB
	repoDelivery repoDelivery
	cfg          config.Config
	validator    validator.Validator
	counter      *clock.Counter
	hotp         passcode.CounterCodec
	totp         passcode.TimeCodec
	secrets      secrets.Encryptor
	locker       lock.Locker
	events       events.Publisher
	uid          uid.NumberID
	clock        clock.Clocker
	ins          instrument.Instrumentation
	goroutine    *goroutine.Manager
}

type Dependency struct {
	RepoDB       repoDB
	RepoDelivery repoDelivery
	Config       config.Config
	Validator    validator.Validator
	Counter      *clock.Counter
	HOTP         passcode.CounterCodec
	TOTP         passcode.TimeCodec
	Secrets      secrets.Encryptor
	Locker       lock.Locker
	Events       events.Publisher
	UID          uid.NumberID
	Clock        clock.Clocker
	Instrument   instrument.Instrumentation
	Goroutine    *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:       dep.RepoDB,
		repoDelivery: dep.RepoDelivery,
		cfg:          dep.Config,
		validator:    dep.Validator,
		counter:      dep.Counter,
		hotp:         dep.HOTP,
		totp:         dep.TOTP,
		secrets:      dep.Secrets,
		locker:       dep.Locker,
		events:       dep.Events,
		uid:          dep.UID,
		clock:        dep.Clock,
		ins:          dep.Instrument,
		goroutine:    dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

// tupleKey names the lock guarding one (user, method, purpose) tuple.
func tupleKey(userID int64, m entity.Method, p entity.Purpose) string {
	return fmt.Sprintf("otp:%d:%d:%d", userID, int16(m), int16(p))
}

func (s *Usecase) lockTTL() time.Duration {
	ttl := s.cfg.GetSecond("otp.lock_ttl_seconds")
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return ttl
}

// loadUser fetches the user and decrypts the enrollment secret. A user
// without a secret cannot participate in any OTP flow.
func (s *Usecase) loadUser(ctx context.Context, userID int64) (*entity.User, error) {
	info, err := s.repoDB.GetUserContactInfo(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(info.EncryptedSecret) == 0 {
		return nil, entity.ErrSecretMissing
	}

	secret, err := s.secrets.Decrypt(info.EncryptedSecret, info.ID)
	if err != nil {
		return nil, err
	}

	return &entity.User{
		ID:          info.ID,
		Email:       info.Email,
		PhoneNumber: info.PhoneNumber,
		FullName:    info.FullName,
		Secret:      string(secret),
	}, nil
}

func (s *Usecase) publish(ctx context.Context, subject, name string, payload map[string]any) {
	s.goroutine.Go(ctx, func(ctx context.Context) error {
		err := s.events.Publish(ctx, subject, events.Event{
			Name:    name,
			At:      s.clock.Now(),
			Payload: payload,
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to publish audit event", "subject", subject, "error", err)
		}
		return nil
	})
}

// newDeliveryError wraps transport failures so callers can tell a
// stored-but-undelivered passcode apart from a rejected request.
func newDeliveryError(err error) error {
	return goerror.NewUnavailable(err, "passcode stored but delivery failed")
}
