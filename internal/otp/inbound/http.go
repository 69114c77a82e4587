package inbound

import (
	"context"

	"github.com/arvandi/otpgate/internal/otp/entity"
	"github.com/arvandi/otpgate/internal/otp/usecase"
	"github.com/arvandi/otpgate/internal/pkg/router"
)

type uc interface {
	Send(ctx context.Context, in usecase.SendInput) (*entity.SendResult, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (*entity.VerifyResult, error)
	MarkUsed(ctx context.Context, in usecase.MarkUsedInput) error
	Provision(ctx context.Context, in usecase.ProvisionInput) (string, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/otp/send", end.Send)
	r.POST("/api/v1/otp/verify", end.Verify)
	r.POST("/api/v1/otp/consume", end.Consume)
	r.POST("/api/v1/otp/provisioning-uri", end.ProvisioningURI)
}
