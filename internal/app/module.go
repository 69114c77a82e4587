package app

import (
	"log/slog"
	"os"

	"github.com/arvandi/otpgate/internal/otp"
)

func (a *App) initModules() {
	if err := otp.New(otp.Dependency{
		DBConn:     a.dbConn,
		Router:     a.router,
		Goroutine:  a.goroutine,
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
		Clock:      a.clock,
		Counter:    a.counter,
		HOTP:       a.hotp,
		TOTP:       a.totp,
		Secrets:    a.secrets,
		Locker:     a.locker,
		Events:     a.events,
		UID:        a.uid,
		Mail:       a.mail,
		SMS:        a.sms,
	}); err != nil {
		slog.Error("failed to init module otp", "error", err)
		os.Exit(1)
	}
}
