package inbound

import (
	"github.com/arvandi/otpgate/internal/otp/entity"
	"github.com/arvandi/otpgate/internal/otp/usecase"
	"github.com/arvandi/otpgate/internal/pkg/goerror"
	"github.com/arvandi/otpgate/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// parseMethod maps the wire method name to its enum value. An absent
// method stays Unknown so the usecase can apply its default; a present
// but unrecognized one is rejected here instead of silently defaulting.
func parseMethod(str string) (entity.Method, error) {
	if str == "" {
		return entity.MethodUnknown, nil
	}

	m := entity.MethodFromString(str)
	if m.IsUnknown() {
		return entity.MethodUnknown, goerror.NewBusiness("unrecognized method "+str, goerror.CodeInvalidInput)
	}

	return m, nil
}

// Send issues a passcode for (user, method, purpose) and dispatches it.
func (h *HTTPEndpoint) Send(r *router.Request) (any, error) {
	var req SendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	method, err := parseMethod(req.Method)
	if err != nil {
		return nil, err
	}

	res, err := h.uc.Send(r.Context(), usecase.SendInput{
		UserID:  req.UserID,
		Method:  method,
		Purpose: entity.PurposeFromString(req.Purpose),
		Meta:    req.Meta,
	})
	if err != nil {
		return nil, err
	}

	return SendResponse{PasscodeID: res.PasscodeID, ExpiresAt: res.ExpiresAt}, nil
}

// Verify checks a candidate code without consuming the passcode.
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	method, err := parseMethod(req.Method)
	if err != nil {
		return nil, err
	}

	res, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
		UserID:  req.UserID,
		Method:  method,
		Purpose: entity.PurposeFromString(req.Purpose),
		Code:    req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyResponse{Valid: res.Valid}, nil
}

// Consume marks the tuple's active passcode as used.
func (h *HTTPEndpoint) Consume(r *router.Request) (any, error) {
	var req ConsumeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	method, err := parseMethod(req.Method)
	if err != nil {
		return nil, err
	}

	return nil, h.uc.MarkUsed(r.Context(), usecase.MarkUsedInput{
		UserID:  req.UserID,
		Method:  method,
		Purpose: entity.PurposeFromString(req.Purpose),
	})
}

// ProvisioningURI returns the otpauth enrollment URI for the user.
func (h *HTTPEndpoint) ProvisioningURI(r *router.Request) (any, error) {
	var req ProvisioningURIRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	uri, err := h.uc.Provision(r.Context(), usecase.ProvisionInput{UserID: req.UserID})
	if err != nil {
		return nil, err
	}

	return ProvisioningURIResponse{URI: uri}, nil
}
