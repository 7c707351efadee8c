package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awkspace/runfile/pkg/domain"
)

// RunCacheStoreContract verifies that a CacheStore implementation adheres
// to the interface contract. Adapter test suites call it against their
// concrete store.
func RunCacheStoreContract(t *testing.T, store CacheStore) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405")

	t.Run("Get Missing", func(t *testing.T) {
		_, err := store.Get(ctx, "absent-"+key)
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)
	})

	t.Run("Put and Get", func(t *testing.T) {
		entry := &domain.CacheEntry{
			LastRun:  time.Now().UTC().Truncate(time.Second),
			BodyHash: "da39a3ee5e6b4b0d3255bfef95601890afd80709",
		}
		require.NoError(t, store.Put(ctx, key, entry))

		loaded, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, entry.LastRun.Equal(loaded.LastRun))
		assert.Equal(t, entry.BodyHash, loaded.BodyHash)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, key, &domain.CacheEntry{BodyHash: "first"}))
		require.NoError(t, store.Put(ctx, key, &domain.CacheEntry{BodyHash: "second"}))

		loaded, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "second", loaded.BodyHash)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, key, &domain.CacheEntry{BodyHash: "gone"}))
		require.NoError(t, store.Delete(ctx, key))

		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)

		// Deleting a missing entry is not an error.
		assert.NoError(t, store.Delete(ctx, key))
	})

	t.Run("LoadVars Default", func(t *testing.T) {
		vars, err := store.LoadVars(ctx)
		require.NoError(t, err)
		assert.NotNil(t, vars)
	})
}
