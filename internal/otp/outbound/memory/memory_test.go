package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arvandi/otpgate/internal/otp/entity"
	"github.com/arvandi/otpgate/internal/pkg/goerror"
)

func TestStoreSingleActivePerTuple(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first := entity.NewPasscode{
		ID:        1,
		UserID:    10,
		Counter:   500,
		ExpiresAt: time.Now().Add(5 * time.Minute),
		Method:    entity.MethodEmail,
		Purpose:   entity.PurposeConfirmEmail,
	}
	if err := s.CreatePasscode(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}

	second := first
	second.ID = 2
	if err := s.CreatePasscode(ctx, second); !errors.Is(err, goerror.ErrConflict) {
		t.Fatalf("expected conflict for second active passcode, got %v", err)
	}

	other := first
	other.ID = 3
	other.Purpose = entity.PurposeSetPassword
	if err := s.CreatePasscode(ctx, other); err != nil {
		t.Fatalf("create for different purpose: %v", err)
	}
}

func TestStoreStatusTransitionGuard(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	data := entity.NewPasscode{
		ID:        1,
		UserID:    10,
		Method:    entity.MethodSMS,
		Purpose:   entity.PurposeForgetPassword,
		ExpiresAt: time.Now().Add(time.Minute),
	}
	if err := s.CreatePasscode(ctx, data); err != nil {
		t.Fatalf("create: %v", err)
	}

	moved, err := s.UpdatePasscodeStatus(ctx, 1, entity.StatusActive, entity.StatusUsed)
	if err != nil || !moved {
		t.Fatalf("first transition: moved=%v err=%v", moved, err)
	}

	moved, err = s.UpdatePasscodeStatus(ctx, 1, entity.StatusActive, entity.StatusUsed)
	if err != nil {
		t.Fatalf("second transition: %v", err)
	}
	if moved {
		t.Fatal("second transition should not move any row")
	}
}

func TestStoreSupersedeFreesTuple(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	data := entity.NewPasscode{
		ID:        1,
		UserID:    10,
		Method:    entity.MethodSMS,
		Purpose:   entity.PurposeChangeEmail,
		ExpiresAt: time.Now().Add(time.Minute),
	}
	if err := s.CreatePasscode(ctx, data); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.UpdatePasscodeStatus(ctx, 1, entity.StatusActive, entity.StatusSkipped); err != nil {
		t.Fatalf("skip: %v", err)
	}

	data.ID = 2
	if err := s.CreatePasscode(ctx, data); err != nil {
		t.Fatalf("create after skip: %v", err)
	}

	got, err := s.GetActivePasscode(ctx, 10, entity.MethodSMS, entity.PurposeChangeEmail)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if got.ID != 2 {
		t.Fatalf("active passcode = %d, want 2", got.ID)
	}
}

func TestStoreUserLookup(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.GetUserContactInfo(ctx, 99); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	s.SeedUser(entity.UserContactInfo{ID: 99, Email: "a@b.test"})

	u, err := s.GetUserContactInfo(ctx, 99)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.Email != "a@b.test" {
		t.Fatalf("email = %q", u.Email)
	}
}
