package inbound

import (
	"time"

	"github.com/arvandi/otpgate/internal/pkg/valueobject"
)

type SendRequest struct {
	UserID  int64               `json:"user_id"`
	Method  string              `json:"method"`
	Purpose string              `json:"purpose"`
	Meta    valueobject.JSONMap `json:"meta"`
}

type SendResponse struct {
	PasscodeID int64     `json:"passcode_id"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type VerifyRequest struct {
	UserID  int64  `json:"user_id"`
	Method  string `json:"method"`
	Purpose string `json:"purpose"`
	Code    string `json:"code"`
}

type VerifyResponse struct {
	Valid bool `json:"valid"`
}

type ConsumeRequest struct {
	UserID  int64  `json:"user_id"`
	Method  string `json:"method"`
	Purpose string `json:"purpose"`
}

type ProvisioningURIRequest struct {
	UserID int64 `json:"user_id"`
}

type ProvisioningURIResponse struct {
	URI string `json:"uri"`
}
