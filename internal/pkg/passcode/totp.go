package passcode

import (
	"net/url"
	"strconv"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TimeCodec is the contract for time-based passcode operations.
type TimeCodec interface {
	// Validate checks whether a code is valid at the given time.
	Validate(code, secret string, at time.Time) bool
	// GenerateCode creates a code for the given secret and time.
	GenerateCode(secret string, at time.Time) (string, error)
	// ProvisioningURI returns the otpauth:// enrollment URI for an account.
	ProvisioningURI(accountName, secret string) string
}

// TOTP implements TimeCodec using the Time-based One-Time Password
// algorithm (RFC 6238).
type TOTP struct {
	issuer string
	period uint
	skew   uint
	digits otp.Digits
}

// NewTOTP constructs a TOTP codec with sensible defaults.
//
// If digits is not 6 or 8, it falls back to 6 digits. If period is 0, it
// uses the common 30-second period. A zero skew becomes 1 so clients one
// step off due to clock drift still validate.
func NewTOTP(issuer string, period, skew uint, digits otp.Digits) *TOTP {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	if period == 0 {
		period = 30
	}

	if skew == 0 {
		skew = 1
	}

	return &TOTP{
		issuer: issuer,
		period: period,
		skew:   skew,
		digits: digits,
	}
}

// Validate checks whether a code is valid at the given time.
func (o *TOTP) Validate(code, secret string, at time.Time) bool {
	rv, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    o.period,
		Skew:      o.skew,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	})

	return rv && err == nil
}

// GenerateCode creates a code for the given secret and time.
func (o *TOTP) GenerateCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    o.period,
		Skew:      o.skew,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	})
}

// ProvisioningURI returns the otpauth:// enrollment URI for an account.
//
// The secret is caller-owned and already base32-encoded, so the URI is
// assembled directly in the same format authenticator apps expect:
// otpauth://totp/Issuer:account?secret=...&issuer=Issuer&...
func (o *TOTP) ProvisioningURI(accountName, secret string) string {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", o.issuer)
	v.Set("period", strconv.FormatUint(uint64(o.period), 10))
	v.Set("digits", o.digits.String())
	v.Set("algorithm", otp.AlgorithmSHA1.String())

	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + o.issuer + ":" + accountName,
		RawQuery: v.Encode(),
	}

	return u.String()
}
