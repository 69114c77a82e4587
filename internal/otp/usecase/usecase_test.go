package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/arvandi/otpgate/internal/otp/entity"
	"github.com/arvandi/otpgate/internal/otp/outbound/delivery"
	"github.com/arvandi/otpgate/internal/otp/outbound/memory"
	"github.com/arvandi/otpgate/internal/pkg/clock"
	"github.com/arvandi/otpgate/internal/pkg/config"
	"github.com/arvandi/otpgate/internal/pkg/events"
	"github.com/arvandi/otpgate/internal/pkg/goerror"
	"github.com/arvandi/otpgate/internal/pkg/goroutine"
	"github.com/arvandi/otpgate/internal/pkg/instrument"
	"github.com/arvandi/otpgate/internal/pkg/lock"
	"github.com/arvandi/otpgate/internal/pkg/passcode"
	"github.com/arvandi/otpgate/internal/pkg/secrets"
	"github.com/arvandi/otpgate/internal/pkg/validator"
	"github.com/pquerna/otp"
)

const (
	testUserID = int64(10)
	testSecret = "JBSWY3DPEHPK3PXP"
)

type fixedClock struct {
	now time.Time
}

func (f *fixedClock) Now() time.Time { return f.now }

type seqID struct {
	n int64
}

func (s *seqID) Generate() int64 {
	s.n++
	return s.n
}

type capturedSend struct {
	method entity.Method
	msg    delivery.Message
}

type captureDelivery struct {
	sent []capturedSend
	err  error
}

func (c *captureDelivery) Deliver(_ context.Context, method entity.Method, msg delivery.Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, capturedSend{method: method, msg: msg})
	return nil
}

type fixture struct {
	uc       *Usecase
	clock    *fixedClock
	store    *memory.Store
	delivery *captureDelivery
	hotp     *passcode.HOTP
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
otp:
  ttl_seconds: 300
  step_seconds: 2
  lock_ttl_seconds: 5
`))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	fc := &fixedClock{now: time.Unix(1000, 0)}
	store := memory.NewStore()
	store.SeedUser(entity.UserContactInfo{
		ID:              testUserID,
		Email:           "jane@example.test",
		PhoneNumber:     "+15550100",
		FullName:        "Jane",
		EncryptedSecret: []byte(testSecret),
	})

	del := &captureDelivery{}
	hotp := passcode.NewHOTP(otp.DigitsSix)

	uc := New(Dependency{
		RepoDB:       store,
		RepoDelivery: del,
		Config:       cfg,
		Validator:    v,
		Counter:      clock.NewCounter(fc, 2*time.Second),
		HOTP:         hotp,
		TOTP:         passcode.NewTOTP("otpgate", 30, 1, otp.DigitsSix),
		Secrets:      secrets.NewPlain(),
		Locker:       lock.NewMemoryLocker(),
		Events:       events.NewNoop(),
		UID:          &seqID{},
		Clock:        fc,
		Instrument:   instrument.NewNoop(),
		Goroutine:    goroutine.NewManager(4),
	})

	return &fixture{uc: uc, clock: fc, store: store, delivery: del, hotp: hotp}
}

func TestSendVerifyRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.uc.Send(ctx, SendInput{
		UserID:  testUserID,
		Method:  entity.MethodEmail,
		Purpose: entity.PurposeForgetPassword,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if got := res.ExpiresAt; !got.Equal(time.Unix(1300, 0)) {
		t.Fatalf("expires at %v, want t=1300", got)
	}

	// t=1000 quantized to 2s steps rounds to counter 500.
	want, err := f.hotp.Generate(testSecret, 500)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(f.delivery.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(f.delivery.sent))
	}
	if got := f.delivery.sent[0].msg.Code; got != want {
		t.Fatalf("delivered code %q, want %q", got, want)
	}

	f.clock.now = time.Unix(1200, 0)
	vres, err := f.uc.Verify(ctx, VerifyInput{
		UserID:  testUserID,
		Method:  entity.MethodEmail,
		Purpose: entity.PurposeForgetPassword,
		Code:    want,
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !vres.Valid {
		t.Fatal("verify at t=1200 should succeed")
	}

	f.clock.now = time.Unix(1301, 0)
	vres, err = f.uc.Verify(ctx, VerifyInput{
		UserID:  testUserID,
		Method:  entity.MethodEmail,
		Purpose: entity.PurposeForgetPassword,
		Code:    want,
	})
	if err != nil {
		t.Fatalf("verify expired: %v", err)
	}
	if vres.Valid {
		t.Fatal("verify at t=1301 should fail, the passcode expired at t=1300")
	}
}

func TestVerifyExpiryBoundaryExclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Send(ctx, SendInput{UserID: testUserID, Method: entity.MethodEmail, Purpose: entity.PurposeConfirmEmail}); err != nil {
		t.Fatalf("send: %v", err)
	}
	code := f.delivery.sent[0].msg.Code

	f.clock.now = time.Unix(1300, 0)
	vres, err := f.uc.Verify(ctx, VerifyInput{UserID: testUserID, Method: entity.MethodEmail, Purpose: entity.PurposeConfirmEmail, Code: code})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if vres.Valid {
		t.Fatal("a passcode expiring exactly now must already be invalid")
	}
}

func TestSendSupersedesPrior(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Send(ctx, SendInput{UserID: testUserID, Method: entity.MethodEmail, Purpose: entity.PurposeConfirmEmail}); err != nil {
		t.Fatalf("first send: %v", err)
	}
	firstCode := f.delivery.sent[0].msg.Code

	// Advance past the quantization step so the counters differ.
	f.clock.now = time.Unix(1003, 0)
	if _, err := f.uc.Send(ctx, SendInput{UserID: testUserID, Method: entity.MethodEmail, Purpose: entity.PurposeConfirmEmail}); err != nil {
		t.Fatalf("second send: %v", err)
	}
	secondCode := f.delivery.sent[1].msg.Code

	if firstCode == secondCode {
		t.Fatal("sends in different steps should produce different codes")
	}

	vres, err := f.uc.Verify(ctx, VerifyInput{UserID: testUserID, Method: entity.MethodEmail, Purpose: entity.PurposeConfirmEmail, Code: firstCode})
	if err != nil {
		t.Fatalf("verify first: %v", err)
	}
	if vres.Valid {
		t.Fatal("the first passcode was superseded and must no longer verify")
	}

	vres, err = f.uc.Verify(ctx, VerifyInput{UserID: testUserID, Method: entity.MethodEmail, Purpose: entity.PurposeConfirmEmail, Code: secondCode})
	if err != nil {
		t.Fatalf("verify second: %v", err)
	}
	if !vres.Valid {
		t.Fatal("the latest passcode should verify")
	}
}

func TestSendAuthenticatorSkipsDispatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.uc.Send(ctx, SendInput{
		UserID:  testUserID,
		Method:  entity.MethodAuthenticator,
		Purpose: entity.PurposeConfirmEmail,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if res.PasscodeID == 0 {
		t.Fatal("send should store a passcode record")
	}
	if len(f.delivery.sent) != 0 {
		t.Fatalf("sent %d messages, want none for authenticator", len(f.delivery.sent))
	}

	// The stored record opens the challenge window for TOTP codes.
	totp := passcode.NewTOTP("otpgate", 30, 1, otp.DigitsSix)
	code, err := totp.GenerateCode(testSecret, f.clock.now)
	if err != nil {
		t.Fatalf("generate totp: %v", err)
	}
	vres, err := f.uc.Verify(ctx, VerifyInput{
		UserID:  testUserID,
		Method:  entity.MethodAuthenticator,
		Purpose: entity.PurposeConfirmEmail,
		Code:    code,
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !vres.Valid {
		t.Fatal("authenticator code should verify inside the challenge window")
	}

	// Consuming the challenge closes the window like any other method.
	if err := f.uc.MarkUsed(ctx, MarkUsedInput{UserID: testUserID, Method: entity.MethodAuthenticator, Purpose: entity.PurposeConfirmEmail}); err != nil {
		t.Fatalf("mark used: %v", err)
	}
	vres, err = f.uc.Verify(ctx, VerifyInput{
		UserID:  testUserID,
		Method:  entity.MethodAuthenticator,
		Purpose: entity.PurposeConfirmEmail,
		Code:    code,
	})
	if err != nil {
		t.Fatalf("verify consumed: %v", err)
	}
	if vres.Valid {
		t.Fatal("a consumed authenticator challenge must not verify again")
	}
}

func TestSendDeliveryFailureKeepsPasscode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.delivery.err = errors.New("smtp: connection refused")

	res, err := f.uc.Send(ctx, SendInput{UserID: testUserID, Method: entity.MethodEmail, Purpose: entity.PurposeSetPassword})
	if err == nil {
		t.Fatal("expected delivery failure to surface")
	}
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnavailable {
		t.Fatalf("expected CodeUnavailable, got %v", err)
	}
	if res == nil {
		t.Fatal("a stored passcode should be reported even when delivery fails")
	}

	// The record stays verifiable via out-of-band delivery.
	code, err := f.hotp.Generate(testSecret, 500)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	vres, err := f.uc.Verify(ctx, VerifyInput{UserID: testUserID, Method: entity.MethodEmail, Purpose: entity.PurposeSetPassword, Code: code})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !vres.Valid {
		t.Fatal("the passcode should remain active after a delivery failure")
	}
}

func TestVerifyDoesNotConsume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Send(ctx, SendInput{UserID: testUserID, Method: entity.MethodSMS, Purpose: entity.PurposeChangeEmail}); err != nil {
		t.Fatalf("send: %v", err)
	}
	code := f.delivery.sent[0].msg.Code

	for i := 0; i < 3; i++ {
		vres, err := f.uc.Verify(ctx, VerifyInput{UserID: testUserID, Method: entity.MethodSMS, Purpose: entity.PurposeChangeEmail, Code: code})
		if err != nil {
			t.Fatalf("verify #%d: %v", i+1, err)
		}
		if !vres.Valid {
			t.Fatalf("verify #%d should succeed, verification must not consume", i+1)
		}
	}
}

func TestMarkUsedConsumesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Send(ctx, SendInput{UserID: testUserID, Method: entity.MethodEmail, Purpose: entity.PurposeConfirmEmail}); err != nil {
		t.Fatalf("send: %v", err)
	}
	code := f.delivery.sent[0].msg.Code

	in := MarkUsedInput{UserID: testUserID, Method: entity.MethodEmail, Purpose: entity.PurposeConfirmEmail}
	if err := f.uc.MarkUsed(ctx, in); err != nil {
		t.Fatalf("mark used: %v", err)
	}

	// A consumed passcode never verifies again.
	vres, err := f.uc.Verify(ctx, VerifyInput{UserID: testUserID, Method: entity.MethodEmail, Purpose: entity.PurposeConfirmEmail, Code: code})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if vres.Valid {
		t.Fatal("used passcode should not verify")
	}

	// The second consume is a caller contract violation and fails loudly.
	err = f.uc.MarkUsed(ctx, in)
	if err == nil {
		t.Fatal("expected error for double consume")
	}
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeConflict {
		t.Fatalf("expected CodeConflict, got %v", err)
	}
}

func TestVerifyUnknownUserFailsClosed(t *testing.T) {
	f := newFixture(t)

	vres, err := f.uc.Verify(context.Background(), VerifyInput{
		UserID:  999,
		Method:  entity.MethodEmail,
		Purpose: entity.PurposeConfirmEmail,
		Code:    "123456",
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if vres.Valid {
		t.Fatal("unknown user must fail closed")
	}
}

func TestVerifyAuthenticatorStaleCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Send(ctx, SendInput{UserID: testUserID, Method: entity.MethodAuthenticator, Purpose: entity.PurposeConfirmEmail}); err != nil {
		t.Fatalf("send: %v", err)
	}

	totp := passcode.NewTOTP("otpgate", 30, 1, otp.DigitsSix)
	code, err := totp.GenerateCode(testSecret, f.clock.now)
	if err != nil {
		t.Fatalf("generate totp: %v", err)
	}

	// Four steps later the record is still active but the code fell well
	// outside the drift window.
	f.clock.now = f.clock.now.Add(4 * 30 * time.Second)
	vres, err := f.uc.Verify(ctx, VerifyInput{
		UserID:  testUserID,
		Method:  entity.MethodAuthenticator,
		Purpose: entity.PurposeConfirmEmail,
		Code:    code,
	})
	if err != nil {
		t.Fatalf("verify stale: %v", err)
	}
	if vres.Valid {
		t.Fatal("authenticator code four steps old should be rejected")
	}
}

func TestVerifyAuthenticatorWithoutChallengeFailsClosed(t *testing.T) {
	f := newFixture(t)

	totp := passcode.NewTOTP("otpgate", 30, 1, otp.DigitsSix)
	code, err := totp.GenerateCode(testSecret, f.clock.now)
	if err != nil {
		t.Fatalf("generate totp: %v", err)
	}

	// No prior send: even a fresh authenticator code has no active record
	// to verify against.
	vres, err := f.uc.Verify(context.Background(), VerifyInput{
		UserID:  testUserID,
		Method:  entity.MethodAuthenticator,
		Purpose: entity.PurposeConfirmEmail,
		Code:    code,
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if vres.Valid {
		t.Fatal("authenticator verify without an active record must fail closed")
	}
}

func TestVerifyAuthenticatorExpiredChallenge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Send(ctx, SendInput{UserID: testUserID, Method: entity.MethodAuthenticator, Purpose: entity.PurposeConfirmEmail}); err != nil {
		t.Fatalf("send: %v", err)
	}

	// Past the record's ttl; a code valid for the current clock must still
	// be rejected because the challenge window closed.
	f.clock.now = f.clock.now.Add(301 * time.Second)
	totp := passcode.NewTOTP("otpgate", 30, 1, otp.DigitsSix)
	code, err := totp.GenerateCode(testSecret, f.clock.now)
	if err != nil {
		t.Fatalf("generate totp: %v", err)
	}

	vres, err := f.uc.Verify(ctx, VerifyInput{
		UserID:  testUserID,
		Method:  entity.MethodAuthenticator,
		Purpose: entity.PurposeConfirmEmail,
		Code:    code,
	})
	if err != nil {
		t.Fatalf("verify expired: %v", err)
	}
	if vres.Valid {
		t.Fatal("authenticator verify after the record expired must fail")
	}
}

func TestProvision(t *testing.T) {
	f := newFixture(t)

	uri, err := f.uc.Provision(context.Background(), ProvisionInput{UserID: testUserID})
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	if !strings.HasPrefix(uri, "otpauth://totp/") {
		t.Fatalf("uri = %q", uri)
	}
	if !strings.Contains(uri, "jane%40example.test") && !strings.Contains(uri, "jane@example.test") {
		t.Fatalf("uri should reference the account email: %q", uri)
	}
	if !strings.Contains(uri, testSecret) {
		t.Fatalf("uri should carry the secret: %q", uri)
	}
}
