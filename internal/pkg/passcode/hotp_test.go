package passcode

import (
	"testing"

	"github.com/pquerna/otp"
)

const testSecret = "JBSWY3DPEHPK3PXP"

func TestHOTPGenerateDeterministic(t *testing.T) {
	h := NewHOTP(otp.DigitsSix)

	first, err := h.Generate(testSecret, 500)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := h.Generate(testSecret, 500)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if first != second {
		t.Fatalf("expected identical codes for identical inputs, got %q and %q", first, second)
	}
	if len(first) != 6 {
		t.Fatalf("expected 6 digit code, got %q", first)
	}
}

func TestHOTPGenerateDiffersAcrossCounters(t *testing.T) {
	h := NewHOTP(otp.DigitsSix)

	first, err := h.Generate(testSecret, 500)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := h.Generate(testSecret, 501)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if first == second {
		t.Fatalf("expected different codes for adjacent counters, both %q", first)
	}
}

func TestHOTPCheckRoundTrip(t *testing.T) {
	h := NewHOTP(otp.DigitsSix)

	code, err := h.Generate(testSecret, 42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !h.Check(code, testSecret, 42) {
		t.Fatalf("expected generated code to verify against its own counter")
	}
	if h.Check(code, testSecret, 43) {
		t.Fatalf("expected code to fail against a different counter")
	}
	if h.Check("000000", testSecret, 42) && code != "000000" {
		t.Fatalf("expected wrong code to fail")
	}
}

func TestHOTPDigitsFallback(t *testing.T) {
	h := NewHOTP(otp.Digits(4))

	code, err := h.Generate(testSecret, 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(code) != 6 {
		t.Fatalf("expected fallback to 6 digits, got %q", code)
	}
}
