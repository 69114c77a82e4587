package app

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

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
	"github.com/nats-io/nats.go"
	libOTP "github.com/pquerna/otp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          true,
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.counter = clock.NewCounter(a.clock, a.config.GetSecond("otp.step_seconds"))
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow

	digits := libOTP.DigitsSix
	if a.config.GetInt("otp.digits") == 8 {
		digits = libOTP.DigitsEight
	}

	a.hotp = passcode.NewHOTP(digits)
	a.totp = passcode.NewTOTP(
		a.config.GetString("otp.totp.issuer"),
		a.config.GetUint("otp.totp.period"),
		a.config.GetUint("otp.totp.skew"),
		digits,
	)

	a.secrets = secrets.NewPlain()
	if encoded := strings.TrimSpace(a.config.GetString("otp.secret_key")); encoded != "" {
		rawKey, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			slog.Error("failed to decode otp secret key", "error", err)
			os.Exit(1)
		}

		enc, err := secrets.NewAESGCM(rawKey)
		if err != nil {
			slog.Error("failed to init otp secret encryptor", "error", err)
			os.Exit(1)
		}
		a.secrets = enc
	}
}

func (a *App) initJWT() {
	defaultJWT, err := jwt.NewHS512(jwt.Config{
		Secret:     []byte(a.config.GetString("jwt.secret")),
		Issuer:     a.config.GetString("jwt.issuer"),
		Audiences:  a.config.GetArray("jwt.audiences"),
		TTLMinutes: a.config.GetMinute("jwt.ttl_minutes"),
		Clock:      a.clock,
		UUID:       a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = defaultJWT
}

func (a *App) initDatabase() {
	if a.config.GetString("database.driver") == "memory" {
		slog.Warn("database driver is memory, passcodes will not survive restarts")
		return
	}

	config, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = a.config.GetInt32("database.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

func (a *App) initCache() {
	url := strings.TrimSpace(a.config.GetString("redis.url"))
	if url == "" {
		slog.Warn("redis is not configured, tuple locks are process local")
		a.locker = lock.NewMemoryLocker()
		return
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.locker = lock.NewRedisLocker(rdb)
}

func (a *App) initMail() {
	mail, err := mail.NewSMTP(mail.SMTPConfig{
		Host:     a.config.GetString("mail.host"),
		Port:     a.config.GetInt("mail.port"),
		Username: a.config.GetString("mail.username"),
		Password: a.config.GetString("mail.password"),
		From:     a.config.GetString("mail.from"),
	})
	if err != nil {
		slog.Error("failed to init mail", "error", err)
		os.Exit(1)
	}

	a.mail = mail
}

func (a *App) initSMS() {
	baseURL := strings.TrimSpace(a.config.GetString("sms.base_url"))
	if baseURL == "" {
		a.sms = sms.NewUnconfigured()
		return
	}

	gateway, err := sms.NewHTTPGateway(sms.HTTPGatewayConfig{
		BaseURL:  baseURL,
		APIKey:   a.config.GetString("sms.api_key"),
		SenderID: a.config.GetString("sms.sender_id"),
		Timeout:  a.config.GetSecond("sms.timeout_seconds"),
	})
	if err != nil {
		slog.Error("failed to init sms gateway", "error", err)
		os.Exit(1)
	}

	a.sms = gateway
}

func (a *App) initEvents() {
	url := strings.TrimSpace(a.config.GetString("events.nats.url"))
	if url == "" {
		a.events = events.NewNoop()
		return
	}

	pub, err := events.NewNATS(events.NATSConfig{
		URL: url,
		Options: []nats.Option{
			nats.Name(a.config.GetString("events.nats.name")),
			nats.MaxReconnects(a.config.GetInt("events.nats.max_reconnects")),
			nats.Timeout(a.config.GetSecond("events.nats.timeout_seconds")),
			nats.ReconnectWait(a.config.GetSecond("events.nats.reconnect_wait_seconds")),
			nats.RetryOnFailedConnect(a.config.GetBool("events.nats.retry_on_failed_connect")),
		},
	})
	if err != nil {
		slog.Error("failed to init events publisher", "error", err)
		os.Exit(1)
	}

	a.events = pub
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		JWT:        a.jwt,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Events",
			fn: func(context.Context) error {
				return a.events.Close()
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				return a.mail.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}

				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				if a.dbConn != nil {
					a.dbConn.Close()
				}

				return nil
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
