package ports

import (
	"context"

	"github.com/awkspace/runfile/pkg/domain"
)

// CacheStore persists per-target freshness records across process
// invocations. Implementations return domain.ErrEntryNotFound from Get
// when no entry exists for a key.
type CacheStore interface {
	// Get retrieves the entry stored under key.
	Get(ctx context.Context, key string) (*domain.CacheEntry, error)

	// Put stores the entry under key, replacing any previous value.
	Put(ctx context.Context, key string, entry *domain.CacheEntry) error

	// Delete removes the entry stored under key. Deleting a missing entry
	// is not an error.
	Delete(ctx context.Context, key string) error

	// LoadVars returns the store-wide variable map exported into the
	// environment of every executed step.
	LoadVars(ctx context.Context) (map[string]string, error)
}
