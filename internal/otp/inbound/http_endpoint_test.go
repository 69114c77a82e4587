package inbound

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arvandi/otpgate/internal/otp/entity"
	"github.com/arvandi/otpgate/internal/otp/usecase"
	"github.com/arvandi/otpgate/internal/pkg/goerror"
	"github.com/arvandi/otpgate/internal/pkg/router"
)

type fakeUsecase struct {
	sendIn *usecase.SendInput
}

func (f *fakeUsecase) Send(_ context.Context, in usecase.SendInput) (*entity.SendResult, error) {
	f.sendIn = &in
	return &entity.SendResult{PasscodeID: 1}, nil
}

func (f *fakeUsecase) Verify(context.Context, usecase.VerifyInput) (*entity.VerifyResult, error) {
	return &entity.VerifyResult{Valid: true}, nil
}

func (f *fakeUsecase) MarkUsed(context.Context, usecase.MarkUsedInput) error {
	return nil
}

func (f *fakeUsecase) Provision(context.Context, usecase.ProvisionInput) (string, error) {
	return "otpauth://totp/x", nil
}

func postRequest(body string) *router.Request {
	return &router.Request{Request: httptest.NewRequest("POST", "/api/v1/otp/send", strings.NewReader(body))}
}

func TestSendRejectsUnparseableMethod(t *testing.T) {
	end := &HTTPEndpoint{uc: &fakeUsecase{}}

	_, err := end.Send(postRequest(`{"user_id": 10, "method": "Emial", "purpose": "ConfirmEmail"}`))
	if err == nil {
		t.Fatal("expected error for a misspelled method")
	}
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
		t.Fatalf("expected CodeInvalidInput, got %v", err)
	}
}

func TestSendAbsentMethodStaysUnknown(t *testing.T) {
	fake := &fakeUsecase{}
	end := &HTTPEndpoint{uc: fake}

	if _, err := end.Send(postRequest(`{"user_id": 10, "purpose": "ConfirmEmail"}`)); err != nil {
		t.Fatalf("send: %v", err)
	}
	if fake.sendIn == nil || fake.sendIn.Method != entity.MethodUnknown {
		t.Fatalf("absent method should pass through as unknown, got %v", fake.sendIn)
	}
}

func TestSendParsesKnownMethod(t *testing.T) {
	fake := &fakeUsecase{}
	end := &HTTPEndpoint{uc: fake}

	if _, err := end.Send(postRequest(`{"user_id": 10, "method": "SMS", "purpose": "ConfirmEmail"}`)); err != nil {
		t.Fatalf("send: %v", err)
	}
	if fake.sendIn == nil || fake.sendIn.Method != entity.MethodSMS {
		t.Fatalf("expected MethodSMS, got %v", fake.sendIn)
	}
}
