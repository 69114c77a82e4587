package lock

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLockerExcludes(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	lease, err := locker.Acquire(ctx, "tuple", time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	blocked, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := locker.Acquire(blocked, "tuple", time.Second); err == nil {
		t.Fatalf("expected second acquire to block until timeout")
	}

	lease.Release(ctx)

	reacquired, err := locker.Acquire(ctx, "tuple", time.Second)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	reacquired.Release(ctx)
}

func TestMemoryLockerIndependentKeys(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	a, err := locker.Acquire(ctx, "a", time.Second)
	if err != nil {
		t.Fatalf("acquire a: %v", err)
	}
	defer a.Release(ctx)

	b, err := locker.Acquire(ctx, "b", time.Second)
	if err != nil {
		t.Fatalf("acquire b: %v", err)
	}
	b.Release(ctx)
}

func TestMemoryLeaseReleaseIdempotent(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	lease, err := locker.Acquire(ctx, "tuple", time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	lease.Release(ctx)
	lease.Release(ctx) // second call must not panic or underflow
}
