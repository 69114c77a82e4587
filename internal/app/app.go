package app

import (
	"context"
	"net/http"

	"github.com/arvandi/otpgate/internal/pkg/clock"
	"github.com/arvandi/otpgate/internal/pkg/config"
	"github.com/arvandi/otpgate/internal/pkg/events"
	"github.com/arvandi/otpgate/internal/pkg/goroutine"
	"github.com/arvandi/otpgate/internal/pkg/instrument"
	"github.com/arvandi/otpgate/internal/pkg/jwt"
	"github.com/arvandi/otpgate/internal/pkg/lock"
	"github.com/arvandi/otpgate/internal/pkg/mail"
	"github.com/arvandi/otpgate/internal/pkg/passcode"
	"github.com/arvandi/otpgate/internal/pkg/router"
	"github.com/arvandi/otpgate/internal/pkg/secrets"
	"github.com/arvandi/otpgate/internal/pkg/sms"
	"github.com/arvandi/otpgate/internal/pkg/uid"
	"github.com/arvandi/otpgate/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	counter   *clock.Counter
	uid       uid.NumberID
	uuid      uid.StringID
	hotp      passcode.CounterCodec
	totp      passcode.TimeCodec
	secrets   secrets.Encryptor
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	locker    lock.Locker
	mail      mail.Mail
	sms       sms.Sender
	events    events.Publisher

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initSMS()
	app.initEvents()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
