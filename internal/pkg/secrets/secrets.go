// Package secrets encrypts and decrypts OTP enrollment secrets at rest.
//
// Callers that hold encrypted enrollment material (rather than plaintext
// base32 secrets) pass the ciphertext along with the owning user id; the
// ciphertext is bound to that user via AEAD additional data, so material
// copied between users fails to decrypt.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Ciphertext format (binary):
// [0..1]   uint16 version (currently 1)
// [2..13]  12-byte nonce
// [14..]   gcm.Seal output (ciphertext + tag)
const cipherVersion uint16 = 1

const (
	gcmNonceSize = 12
	aesKeyLen    = 32
)

var (
	// ErrNotConfigured indicates the encryptor has no key material.
	ErrNotConfigured = errors.New("secrets: encryptor not configured")
	// ErrPlaintextEmpty indicates an empty plaintext input.
	ErrPlaintextEmpty = errors.New("secrets: plaintext is empty")
	// ErrInvalidKeyLength indicates the key length is invalid.
	ErrInvalidKeyLength = errors.New("secrets: invalid key length")
	// ErrCiphertextTooShort indicates a truncated ciphertext.
	ErrCiphertextTooShort = errors.New("secrets: ciphertext too short")
	// ErrUnsupportedVersion indicates an unsupported ciphertext version.
	ErrUnsupportedVersion = errors.New("secrets: unsupported ciphertext version")
	// ErrDecryptFailed indicates decryption failure.
	ErrDecryptFailed = errors.New("secrets: decrypt failed")
)

// Encryptor is the contract for secret-at-rest encryption.
type Encryptor interface {
	Encrypt(plaintext []byte, userID int64) ([]byte, error)
	Decrypt(ciphertext []byte, userID int64) ([]byte, error)
}

// AESGCM implements Encryptor using AES-256-GCM with a static key.
type AESGCM struct {
	key []byte
}

// NewAESGCM constructs an AES-256-GCM encryptor from raw key material.
func NewAESGCM(key []byte) (*AESGCM, error) {
	if len(key) != aesKeyLen {
		return nil, fmt.Errorf("secrets: key must be %d bytes for AES-256, got %d: %w", aesKeyLen, len(key), ErrInvalidKeyLength)
	}

	return &AESGCM{key: key}, nil
}

// Encrypt seals plaintext, binding the result to the owning user via AAD.
func (e *AESGCM) Encrypt(plaintext []byte, userID int64) ([]byte, error) {
	if e == nil || len(e.key) == 0 {
		return nil, ErrNotConfigured
	}
	if len(plaintext) == 0 {
		return nil, ErrPlaintextEmpty
	}

	gcm, err := e.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcmNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("secrets: nonce generation failed: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, userAAD(userID))

	out := make([]byte, 2+gcmNonceSize+len(sealed))
	binary.BigEndian.PutUint16(out[0:2], cipherVersion)
	copy(out[2:2+gcmNonceSize], nonce)
	copy(out[2+gcmNonceSize:], sealed)

	return out, nil
}

// Decrypt opens ciphertext, requiring the same owning user.
func (e *AESGCM) Decrypt(ciphertext []byte, userID int64) ([]byte, error) {
	if e == nil || len(e.key) == 0 {
		return nil, ErrNotConfigured
	}
	if len(ciphertext) < 2+gcmNonceSize+1 {
		return nil, ErrCiphertextTooShort
	}

	version := binary.BigEndian.Uint16(ciphertext[0:2])
	if version != cipherVersion {
		return nil, fmt.Errorf("secrets: ciphertext version %d: %w", version, ErrUnsupportedVersion)
	}

	gcm, err := e.aead()
	if err != nil {
		return nil, err
	}

	nonce := ciphertext[2 : 2+gcmNonceSize]
	sealed := ciphertext[2+gcmNonceSize:]

	plain, err := gcm.Open(nil, nonce, sealed, userAAD(userID))
	if err != nil {
		// Do not leak whether it was wrong user vs wrong key vs tampered.
		return nil, ErrDecryptFailed
	}

	return plain, nil
}

func (e *AESGCM) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("secrets: aes init failed: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("secrets: gcm init failed: %w", err)
	}

	return gcm, nil
}

// userAAD encodes the owning user into fixed-length additional data.
func userAAD(userID int64) []byte {
	canonical := fmt.Sprintf("uid=%d\n", userID)
	sum := sha256.Sum256([]byte(canonical))
	return sum[:]
}
