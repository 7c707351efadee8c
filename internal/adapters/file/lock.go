package file

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/awkspace/runfile/pkg/ports"
)

// Locker implements ports.Locker with an exclusive lock file next to the
// cache file. Creation with O_EXCL is atomic on every filesystem we care
// about; a lock file older than the TTL is treated as abandoned by a
// killed process and broken.
type Locker struct {
	dir string
}

// NewLocker creates a Locker placing lock files in dir.
func NewLocker(dir string) *Locker {
	return &Locker{dir: dir}
}

// Lock polls until the lock file can be created exclusively, the stale TTL
// breaks an abandoned lock, or the context is canceled.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to ensure lock directory: %w", err)
	}
	path := fmt.Sprintf("%s/%s.lock", l.dir, key)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func(context.Context) error {
				return os.Remove(path)
			}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		if info, statErr := os.Stat(path); statErr == nil && time.Since(info.ModTime()) > ttl {
			_ = os.Remove(path)
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
