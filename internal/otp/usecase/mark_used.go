package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/arvandi/otpgate/internal/otp/entity"
	"github.com/arvandi/otpgate/internal/pkg/goerror"
	"github.com/arvandi/otpgate/internal/pkg/lock"
)

type MarkUsedInput struct {
	UserID  int64 `validate:"required,gt=0"`
	Method  entity.Method
	Purpose entity.Purpose
}

// MarkUsed consumes the tuple's active passcode. Callers must have a
// successful Verify for the same tuple first; calling this with no
// active passcode is an upstream logic bug and fails loudly.
func (s *Usecase) MarkUsed(ctx context.Context, in MarkUsedInput) error {
	ctx, span := s.startSpan(ctx, "MarkUsed")
	defer span.End()

	if in.Method == entity.MethodUnknown {
		in.Method = entity.MethodEmail
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}
	if in.Method.IsUnknown() || in.Purpose.IsUnknown() {
		return goerror.NewBusiness("unrecognized method or purpose", goerror.CodeInvalidInput)
	}

	lease, err := s.locker.Acquire(ctx, tupleKey(in.UserID, in.Method, in.Purpose), s.lockTTL())
	if errors.Is(err, lock.ErrNotAcquired) {
		return goerror.NewBusiness("another passcode operation is in progress", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to acquire tuple lock", "user_id", in.UserID, "error", err)
		return goerror.NewServer(err)
	}
	defer lease.Release(ctx)

	record, err := s.repoDB.GetActivePasscode(ctx, in.UserID, in.Method, in.Purpose)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "mark used called with no active passcode", "user_id", in.UserID, "method", in.Method.String(), "purpose", in.Purpose.String())
		return goerror.NewBusiness("no active passcode to consume", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get active passcode", "user_id", in.UserID, "error", err)
		return goerror.NewServer(err)
	}

	moved, err := s.repoDB.UpdatePasscodeStatus(ctx, record.ID, entity.StatusActive, entity.StatusUsed)
	if err != nil {
		slog.ErrorContext(ctx, "failed to mark passcode used", "passcode_id", record.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !moved {
		slog.ErrorContext(ctx, "active passcode transitioned concurrently", "passcode_id", record.ID)
		return goerror.NewBusiness("no active passcode to consume", goerror.CodeConflict)
	}

	s.publish(ctx, subjectConsumed, "passcode.consumed", map[string]any{
		"passcode_id": record.ID,
		"user_id":     in.UserID,
		"method":      in.Method.String(),
		"purpose":     in.Purpose.String(),
	})

	return nil
}
