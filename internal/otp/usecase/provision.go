package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/arvandi/otpgate/internal/otp/entity"
	"github.com/arvandi/otpgate/internal/pkg/goerror"
)

type ProvisionInput struct {
	UserID int64 `validate:"required,gt=0"`
}

// Provision derives the otpauth enrollment URI for the user's
// authenticator app. Pure derivation, no state involved.
func (s *Usecase) Provision(ctx context.Context, in ProvisionInput) (string, error) {
	ctx, span := s.startSpan(ctx, "Provision")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return "", goerror.NewInvalidInput(err)
	}

	user, err := s.loadUser(ctx, in.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return "", goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if errors.Is(err, entity.ErrSecretMissing) {
		return "", goerror.NewBusiness("user has no otp enrollment", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to load user", "user_id", in.UserID, "error", err)
		return "", goerror.NewServer(err)
	}

	return s.totp.ProvisioningURI(user.Email, user.Secret), nil
}
