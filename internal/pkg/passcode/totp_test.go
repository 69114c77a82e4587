package passcode

import (
	"strings"
	"testing"
	"time"
)

func TestTOTPValidateWithinSkew(t *testing.T) {
	codec := NewTOTP("otpgate", 30, 1, 0)
	at := time.Unix(1_700_000_000, 0)

	code, err := codec.GenerateCode(testSecret, at)
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}

	if !codec.Validate(code, testSecret, at) {
		t.Fatalf("expected code to validate at generation time")
	}
	if !codec.Validate(code, testSecret, at.Add(30*time.Second)) {
		t.Fatalf("expected code to validate one step later (drift tolerance)")
	}
	if codec.Validate(code, testSecret, at.Add(300*time.Second)) {
		t.Fatalf("expected code to fail ten steps later")
	}
}

func TestTOTPProvisioningURI(t *testing.T) {
	codec := NewTOTP("otpgate", 30, 1, 0)

	uri := codec.ProvisioningURI("user@example.com", testSecret)

	if !strings.HasPrefix(uri, "otpauth://totp/") {
		t.Fatalf("expected otpauth totp scheme, got %q", uri)
	}
	if !strings.Contains(uri, "secret="+testSecret) {
		t.Fatalf("expected secret in uri, got %q", uri)
	}
	if !strings.Contains(uri, "issuer=otpgate") {
		t.Fatalf("expected issuer in uri, got %q", uri)
	}
}
