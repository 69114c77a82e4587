package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/arvandi/otpgate/internal/otp/entity"
	"github.com/arvandi/otpgate/internal/otp/outbound/delivery"
	"github.com/arvandi/otpgate/internal/pkg/goerror"
	"github.com/arvandi/otpgate/internal/pkg/lock"
	"github.com/arvandi/otpgate/internal/pkg/valueobject"
)

type SendInput struct {
	UserID  int64 `validate:"required,gt=0"`
	Method  entity.Method
	Purpose entity.Purpose
	Meta    valueobject.JSONMap
}

// Send supersedes any active passcode for the tuple, stores a fresh one
// and dispatches it. A delivery failure is reported but never rolls the
// stored passcode back; it stays verifiable.
func (s *Usecase) Send(ctx context.Context, in SendInput) (*entity.SendResult, error) {
	ctx, span := s.startSpan(ctx, "Send")
	defer span.End()

	if in.Method == entity.MethodUnknown {
		in.Method = entity.MethodEmail
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.Method.IsUnknown() {
		return nil, goerror.NewBusiness("unrecognized delivery method", goerror.CodeInvalidInput)
	}
	if in.Purpose.IsUnknown() {
		return nil, goerror.NewBusiness("unrecognized passcode purpose", goerror.CodeInvalidInput)
	}

	user, err := s.loadUser(ctx, in.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if errors.Is(err, entity.ErrSecretMissing) {
		slog.ErrorContext(ctx, "user has no otp secret", "user_id", in.UserID)
		return nil, goerror.NewBusiness("user has no otp enrollment", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to load user", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	lease, err := s.locker.Acquire(ctx, tupleKey(user.ID, in.Method, in.Purpose), s.lockTTL())
	if errors.Is(err, lock.ErrNotAcquired) {
		return nil, goerror.NewBusiness("another passcode operation is in progress", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to acquire tuple lock", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	defer lease.Release(ctx)

	prev, err := s.repoDB.GetActivePasscode(ctx, user.ID, in.Method, in.Purpose)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get active passcode", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if prev != nil {
		moved, err := s.repoDB.UpdatePasscodeStatus(ctx, prev.ID, entity.StatusActive, entity.StatusSkipped)
		if err != nil {
			slog.ErrorContext(ctx, "failed to skip superseded passcode", "passcode_id", prev.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		if !moved {
			slog.WarnContext(ctx, "superseded passcode already transitioned", "passcode_id", prev.ID)
		}
	}

	counter := s.counter.Current()
	expiresAt := s.clock.Now().Add(s.cfg.GetSecond("otp.ttl_seconds"))

	record := entity.NewPasscode{
		ID:        s.uid.Generate(),
		UserID:    user.ID,
		Counter:   counter,
		ExpiresAt: expiresAt,
		Method:    in.Method,
		Purpose:   in.Purpose,
		Metadata:  in.Meta,
	}
	if err := s.repoDB.CreatePasscode(ctx, record); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("another passcode operation is in progress", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create passcode", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.publish(ctx, subjectIssued, "passcode.issued", map[string]any{
		"passcode_id": record.ID,
		"user_id":     user.ID,
		"method":      in.Method.String(),
		"purpose":     in.Purpose.String(),
	})

	result := &entity.SendResult{PasscodeID: record.ID, ExpiresAt: expiresAt}

	// The authenticator app holds the code; the stored record only opens
	// the challenge window, nothing is dispatched.
	if in.Method == entity.MethodAuthenticator {
		return result, nil
	}

	code, err := s.hotp.Generate(user.Secret, counter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate passcode", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDelivery.Deliver(ctx, in.Method, delivery.Message{
		User:      *user,
		Purpose:   in.Purpose,
		Code:      code,
		ExpiresAt: expiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to deliver passcode", "passcode_id", record.ID, "method", in.Method.String(), "error", err)
		return result, newDeliveryError(err)
	}

	return result, nil
}
