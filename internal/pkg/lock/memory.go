package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker implements Locker for a single process.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewMemoryLocker constructs a MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		slots: make(map[string]chan struct{}),
	}
}

// Acquire obtains the key lock, blocking until it is free or ctx expires.
// The ttl is ignored: an in-process holder cannot crash without the
// process going with it.
func (l *MemoryLocker) Acquire(ctx context.Context, key string, _ time.Duration) (Lease, error) {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[key] = slot
	}
	l.mu.Unlock()

	select {
	case slot <- struct{}{}:
		return &memoryLease{slot: slot}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type memoryLease struct {
	slot chan struct{}
	once sync.Once
}

func (m *memoryLease) Release(context.Context) {
	m.once.Do(func() {
		<-m.slot
	})
}
