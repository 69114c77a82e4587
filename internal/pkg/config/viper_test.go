package config

import (
	"testing"
	"time"
)

func TestViperGetters(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(`
app:
  name: "otpgate"
  debug: true
otp:
  digits: 6
  ttl_seconds: 300
  totp:
    period: 30
jwt:
  ttl_minutes: 15
  audiences:
    - "internal"
    - "partner"
database:
  pool:
    max_conns: 4
instrument:
  trace_sample_ratio: 0.25
`))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	if got := cfg.GetString("app.name"); got != "otpgate" {
		t.Fatalf("GetString = %q", got)
	}
	if !cfg.GetBool("app.debug") {
		t.Fatal("GetBool should be true")
	}
	if got := cfg.GetInt("otp.digits"); got != 6 {
		t.Fatalf("GetInt = %d", got)
	}
	if got := cfg.GetInt32("database.pool.max_conns"); got != 4 {
		t.Fatalf("GetInt32 = %d", got)
	}
	if got := cfg.GetUint("otp.totp.period"); got != 30 {
		t.Fatalf("GetUint = %d", got)
	}
	if got := cfg.GetFloat64("instrument.trace_sample_ratio"); got != 0.25 {
		t.Fatalf("GetFloat64 = %v", got)
	}
	if got := cfg.GetSecond("otp.ttl_seconds"); got != 300*time.Second {
		t.Fatalf("GetSecond = %v", got)
	}
	if got := cfg.GetMinute("jwt.ttl_minutes"); got != 15*time.Minute {
		t.Fatalf("GetMinute = %v", got)
	}

	auds := cfg.GetArray("jwt.audiences")
	if len(auds) != 2 || auds[0] != "internal" || auds[1] != "partner" {
		t.Fatalf("GetArray = %v", auds)
	}
}

func TestViperFromBytesRequiresType(t *testing.T) {
	if _, err := NewViperFromBytes("", []byte("a: 1")); err == nil {
		t.Fatal("expected error for empty config type")
	}
}
