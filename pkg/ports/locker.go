package ports

import (
	"context"
	"time"
)

// UnlockFunc releases an advisory lock.
type UnlockFunc func(ctx context.Context) error

// Locker serializes cache mutations across concurrent invocations sharing
// the same store. Lock blocks until the lock is acquired or the context is
// canceled; the returned UnlockFunc MUST be called to release it.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
