package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awkspace/runfile/internal/adapters/memory"
	"github.com/awkspace/runfile/internal/cache"
	"github.com/awkspace/runfile/internal/document"
	"github.com/awkspace/runfile/internal/logging"
	"github.com/awkspace/runfile/pkg/domain"
)

func cacheDoc(t *testing.T) *domain.Document {
	t.Helper()
	builder := document.NewBuilder(memory.NewFetcher(map[string]string{
		"Runfile.md": "# Project\n\n" +
			"## deps\n\n```sh\nfetch deps\n```\n\n" +
			"## build\n\n```yaml\nrequires:\n  - deps\nexpiry: 1h\n```\n\n```sh\nmake\n```\n\n" +
			"## quick\n\n```sh\nquick\n```\n\n" +
			"## pin\n\n```yaml\nexpiry: never\n```\n\n```sh\npin\n```\n\n" +
			"## reset\n\n```yaml\ninvalidates:\n  - build\n```\n\n```sh\nreset\n```\n",
	}), logging.NewNop())
	doc, err := builder.Load(context.Background(), "Runfile.md")
	require.NoError(t, err)
	return doc
}

func newEngine() (*cache.Engine, *memory.Store) {
	store := memory.NewStore()
	return cache.NewEngine(store, nil, logging.NewNop()), store
}

func TestIsExpired_NeverRun(t *testing.T) {
	doc := cacheDoc(t)
	engine, _ := newEngine()

	expired, err := engine.IsExpired(context.Background(), doc.Target("build"))
	require.NoError(t, err)
	assert.True(t, expired)
}

func TestIsExpired_FreshWithinWindow(t *testing.T) {
	doc := cacheDoc(t)
	engine, _ := newEngine()
	ctx := context.Background()

	require.NoError(t, engine.Commit(ctx, doc.Target("deps"), time.Now()))
	require.NoError(t, engine.Commit(ctx, doc.Target("build"), time.Now()))

	expired, err := engine.IsExpired(ctx, doc.Target("build"))
	require.NoError(t, err)
	assert.False(t, expired)
}

func TestIsExpired_AbsentExpiryAlwaysElapsed(t *testing.T) {
	doc := cacheDoc(t)
	engine, _ := newEngine()
	ctx := context.Background()

	// quick has no expiry configured: the zero window has always already
	// elapsed by the next consideration.
	require.NoError(t, engine.Commit(ctx, doc.Target("quick"), time.Now().Add(-time.Millisecond)))

	expired, err := engine.IsExpired(ctx, doc.Target("quick"))
	require.NoError(t, err)
	assert.True(t, expired)
}

func TestIsExpired_NeverExpires(t *testing.T) {
	doc := cacheDoc(t)
	engine, _ := newEngine()
	ctx := context.Background()

	require.NoError(t, engine.Commit(ctx, doc.Target("pin"), time.Now().Add(-24*time.Hour)))

	expired, err := engine.IsExpired(ctx, doc.Target("pin"))
	require.NoError(t, err)
	assert.False(t, expired)
}

func TestIsExpired_BodyDrift(t *testing.T) {
	doc := cacheDoc(t)
	engine, _ := newEngine()
	ctx := context.Background()

	build := doc.Target("build")
	require.NoError(t, engine.Commit(ctx, doc.Target("deps"), time.Now()))
	require.NoError(t, engine.Commit(ctx, build, time.Now()))

	build.Blocks[0].Body = "make extra"
	expired, err := engine.IsExpired(ctx, build)
	require.NoError(t, err)
	assert.True(t, expired)
}

func TestIsExpired_DependencyRanLater(t *testing.T) {
	doc := cacheDoc(t)
	engine, _ := newEngine()
	ctx := context.Background()

	require.NoError(t, engine.Commit(ctx, doc.Target("build"), time.Now().Add(-time.Minute)))
	require.NoError(t, engine.Commit(ctx, doc.Target("deps"), time.Now()))

	expired, err := engine.IsExpired(ctx, doc.Target("build"))
	require.NoError(t, err)
	assert.True(t, expired)
}

func TestCommit_Invalidates(t *testing.T) {
	doc := cacheDoc(t)
	engine, store := newEngine()
	ctx := context.Background()

	build := doc.Target("build")
	require.NoError(t, engine.Commit(ctx, build, time.Now()))

	require.NoError(t, engine.Commit(ctx, doc.Target("reset"), time.Now()))

	_, err := store.Get(ctx, build.CacheKey())
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestRecordImage(t *testing.T) {
	doc := cacheDoc(t)
	engine, _ := newEngine()
	ctx := context.Background()

	build := doc.Target("build")
	require.NoError(t, engine.RecordImage(ctx, build, "runfile:abc123", "hash1"))

	entry, err := engine.Entry(ctx, build)
	require.NoError(t, err)
	assert.Equal(t, "runfile:abc123", entry.Image)
	assert.Equal(t, "hash1", entry.BuildHash)
	assert.False(t, entry.HasRun())
}

func TestVars(t *testing.T) {
	engine, store := newEngine()
	store.SetVar("API_KEY", "secret")

	vars, err := engine.Vars(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"API_KEY": "secret"}, vars)
}
