// Package otp wires the passcode lifecycle module: storage, delivery,
// usecase and HTTP endpoints.
package otp

import (
	"github.com/arvandi/otpgate/internal/otp/inbound"
	"github.com/arvandi/otpgate/internal/otp/outbound/db"
	"github.com/arvandi/otpgate/internal/otp/outbound/delivery"
	"github.com/arvandi/otpgate/internal/otp/outbound/memory"
	"github.com/arvandi/otpgate/internal/otp/usecase"
	"github.com/arvandi/otpgate/internal/pkg/clock"
	"github.com/arvandi/otpgate/internal/pkg/config"
	"github.com/arvandi/otpgate/internal/pkg/events"
	"github.com/arvandi/otpgate/internal/pkg/goroutine"
	"github.com/arvandi/otpgate/internal/pkg/instrument"
	"github.com/arvandi/otpgate/internal/pkg/lock"
	"github.com/arvandi/otpgate/internal/pkg/mail"
	"github.com/arvandi/otpgate/internal/pkg/passcode"
	"github.com/arvandi/otpgate/internal/pkg/router"
	"github.com/arvandi/otpgate/internal/pkg/secrets"
	"github.com/arvandi/otpgate/internal/pkg/sms"
	"github.com/arvandi/otpgate/internal/pkg/uid"
	"github.com/arvandi/otpgate/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependency struct {
	// DBConn may be nil; the module then falls back to the in-memory
	// store (single-node deployments, local development).
	DBConn *pgxpool.Pool

	Router     *router.Router             `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Counter    *clock.Counter             `validate:"required"`
	HOTP       passcode.CounterCodec      `validate:"required"`
	TOTP       passcode.TimeCodec         `validate:"required"`
	Secrets    secrets.Encryptor          `validate:"required"`
	Locker     lock.Locker                `validate:"required"`
	Events     events.Publisher           `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	SMS        sms.Sender                 `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	del, err := delivery.New(delivery.Dependency{
		Mail:       dep.Mail,
		SMS:        dep.SMS,
		Instrument: dep.Instrument,
		From:       dep.Config.GetString("mail.from"),
	})
	if err != nil {
		return err
	}

	ucDep := usecase.Dependency{
		RepoDelivery: del,
		Config:       dep.Config,
		Validator:    dep.Validator,
		Counter:      dep.Counter,
		HOTP:         dep.HOTP,
		TOTP:         dep.TOTP,
		Secrets:      dep.Secrets,
		Locker:       dep.Locker,
		Events:       dep.Events,
		UID:          dep.UID,
		Clock:        dep.Clock,
		Instrument:   dep.Instrument,
		Goroutine:    dep.Goroutine,
	}

	if dep.DBConn != nil {
		ucDep.RepoDB = db.NewDB(dep.DBConn, dep.Instrument)
	} else {
		ucDep.RepoDB = memory.NewStore()
	}

	inbound.RegisterHTTPEndpoint(dep.Router, usecase.New(ucDep))

	return nil
}
