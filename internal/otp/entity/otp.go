package entity

import (
	"errors"
	"time"

	"github.com/arvandi/otpgate/internal/pkg/valueobject"
)

var (
	ErrPhoneNumberMissing = errors.New("otp: user has no phone number")
	ErrEmailMissing       = errors.New("otp: user has no email address")
	ErrSecretMissing      = errors.New("otp: user has no authenticator secret")
)

// Passcode is one issued code. The code itself is never stored; it is
// recomputed from the user's secret and Counter on verification.
type Passcode struct {
	ID        int64
	UserID    int64
	Counter   uint64
	ExpiresAt time.Time
	Method    Method
	Purpose   Purpose
	Status    Status
	Metadata  valueobject.JSONMap
}

type User struct {
	ID          int64
	Email       string
	PhoneNumber string
	FullName    string

	// Secret is the user's base32 OTP secret, decrypted from storage.
	Secret string
}

type UserContactInfo struct {
	ID          int64
	Email       string
	PhoneNumber string
	FullName    string

	// EncryptedSecret is the OTP secret as stored, sealed with the
	// service key. Decryption happens in the usecase layer.
	EncryptedSecret []byte
}

type NewPasscode struct {
	ID        int64
	UserID    int64
	Counter   uint64
	ExpiresAt time.Time
	Method    Method
	Purpose   Purpose
	Metadata  valueobject.JSONMap
}

type SendResult struct {
	PasscodeID int64
	ExpiresAt  time.Time
}

type VerifyResult struct {
	PasscodeID int64
	Valid      bool
}
