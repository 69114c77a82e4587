// Package lock provides per-key mutual exclusion.
//
// The passcode lifecycle must not let two concurrent sends for the same
// (user, method, purpose) tuple both observe "no active record": the
// supersede-then-create sequence runs under a key lock. RedisLocker
// coordinates across replicas; MemoryLocker covers single-process
// deployments and tests.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired indicates the lock could not be obtained before the
// acquisition deadline.
var ErrNotAcquired = errors.New("lock: not acquired")

// Lease is a held lock. Release is safe to call once, typically deferred.
type Lease interface {
	Release(ctx context.Context)
}

// Locker grants exclusive leases on arbitrary string keys.
type Locker interface {
	// Acquire blocks until the key lock is obtained or ctx expires. The
	// ttl bounds how long a crashed holder can block others.
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}
