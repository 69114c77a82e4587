package secrets

import (
	"bytes"
	"testing"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x42}, 32)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	enc, err := NewAESGCM(testKey())
	if err != nil {
		t.Fatalf("new encryptor: %v", err)
	}

	ct, err := enc.Encrypt([]byte("JBSWY3DPEHPK3PXP"), 7)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	pt, err := enc.Decrypt(ct, 7)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if string(pt) != "JBSWY3DPEHPK3PXP" {
		t.Fatalf("round trip mismatch, got %q", pt)
	}
}

func TestDecryptRejectsWrongUser(t *testing.T) {
	enc, err := NewAESGCM(testKey())
	if err != nil {
		t.Fatalf("new encryptor: %v", err)
	}

	ct, err := enc.Encrypt([]byte("JBSWY3DPEHPK3PXP"), 7)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if _, err := enc.Decrypt(ct, 8); err == nil {
		t.Fatalf("expected decrypt to fail for a different user")
	}
}

func TestNewAESGCMRejectsShortKey(t *testing.T) {
	if _, err := NewAESGCM([]byte("short")); err == nil {
		t.Fatalf("expected error for short key")
	}
}
