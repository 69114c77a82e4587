package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/arvandi/otpgate/internal/otp/entity"
	"github.com/arvandi/otpgate/internal/pkg/goerror"
)

type VerifyInput struct {
	UserID  int64  `validate:"required,gt=0"`
	Code    string `validate:"required,passcode"`
	Method  entity.Method
	Purpose entity.Purpose
}

// Verify reports whether the candidate code is valid for the tuple's
// active passcode. It never mutates state; missing, expired and
// mismatched codes all come back as plain false so callers cannot tell
// them apart.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*entity.VerifyResult, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	if in.Method == entity.MethodUnknown {
		in.Method = entity.MethodEmail
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.Method.IsUnknown() || in.Purpose.IsUnknown() {
		return nil, goerror.NewBusiness("unrecognized method or purpose", goerror.CodeInvalidInput)
	}

	user, err := s.loadUser(ctx, in.UserID)
	if errors.Is(err, goerror.ErrNotFound) || errors.Is(err, entity.ErrSecretMissing) {
		return &entity.VerifyResult{Valid: false}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to load user", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	record, err := s.repoDB.GetActivePasscode(ctx, user.ID, in.Method, in.Purpose)
	if errors.Is(err, goerror.ErrNotFound) {
		return &entity.VerifyResult{Valid: false}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get active passcode", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	// Expiry is exclusive: a record expiring exactly now is already
	// invalid, and the codec is never consulted for it.
	now := s.clock.Now()
	if !now.Before(record.ExpiresAt) {
		return &entity.VerifyResult{PasscodeID: record.ID, Valid: false}, nil
	}

	// Authenticator codes come from the user's app and are checked
	// against the clock; the stored record only gates the challenge
	// window. Everything else checks against the stored counter.
	var valid bool
	if in.Method == entity.MethodAuthenticator {
		valid = s.totp.Validate(in.Code, user.Secret, now)
	} else {
		valid = s.hotp.Check(in.Code, user.Secret, record.Counter)
	}

	return &entity.VerifyResult{PasscodeID: record.ID, Valid: valid}, nil
}
