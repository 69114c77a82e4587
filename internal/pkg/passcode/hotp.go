package passcode

import (
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// CounterCodec is the contract for counter-based passcode operations.
type CounterCodec interface {
	// Generate creates the code for the given secret and counter.
	Generate(secret string, counter uint64) (string, error)
	// Check reports whether code matches the given secret and counter.
	Check(code, secret string, counter uint64) bool
}

// HOTP implements CounterCodec using the HMAC-based One-Time Password
// algorithm (RFC 4226).
type HOTP struct {
	digits otp.Digits
}

// NewHOTP constructs an HOTP codec.
//
// If digits is not 6 or 8, it falls back to 6 digits. Digit length is an
// instance field, never process-global state, so two codecs with different
// lengths can coexist.
func NewHOTP(digits otp.Digits) *HOTP {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	return &HOTP{digits: digits}
}

// Generate creates the code for the given secret and counter.
//
// The result is a pure function of (secret, counter): the same inputs
// always yield the same fixed-length numeric code.
func (h *HOTP) Generate(secret string, counter uint64) (string, error) {
	return hotp.GenerateCodeCustom(secret, counter, hotp.ValidateOpts{
		Digits:    h.digits,
		Algorithm: otp.AlgorithmSHA1,
	})
}

// Check reports whether code matches the given secret and counter.
//
// The underlying comparison is constant-time with respect to the candidate
// code, so mismatches do not leak how many leading digits were correct.
func (h *HOTP) Check(code, secret string, counter uint64) bool {
	rv, err := hotp.ValidateCustom(code, counter, secret, hotp.ValidateOpts{
		Digits:    h.digits,
		Algorithm: otp.AlgorithmSHA1,
	})

	return rv && err == nil
}
