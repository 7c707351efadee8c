// Package cache decides whether a target's cached result is still fresh
// and records successful runs, persisting freshness state through a
// CacheStore.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/awkspace/runfile/internal/document"
	"github.com/awkspace/runfile/internal/timeutil"
	"github.com/awkspace/runfile/pkg/domain"
	"github.com/awkspace/runfile/pkg/ports"
)

// lockKey and lockTTL cover every read-modify-write of the shared store.
// The store is process-wide external state; without the advisory lock,
// concurrent invocations against the same store can interleave writes.
const (
	lockKey = "cache"
	lockTTL = 30 * time.Second
)

// Engine is the caching and invalidation policy gate.
type Engine struct {
	store  ports.CacheStore
	locker ports.Locker
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine creates a cache engine. locker may be nil, in which case
// mutations are unserialized (matching the original single-invocation
// assumption).
func NewEngine(store ports.CacheStore, locker ports.Locker, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		locker: locker,
		logger: logger,
		now:    time.Now,
	}
}

// Entry returns the target's cache entry, or a fresh zero entry when none
// has been recorded yet.
func (e *Engine) Entry(ctx context.Context, target *domain.Target) (*domain.CacheEntry, error) {
	entry, err := e.store.Get(ctx, target.CacheKey())
	if errors.Is(err, domain.ErrEntryNotFound) {
		return &domain.CacheEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// IsExpired is the policy gate consulted before executing a target:
//
//  1. no successful run recorded yet: stale
//  2. the body hash drifted from the recorded one: stale
//  3. any required target ran more recently: stale (the scheduler has
//     already run all dependencies by topological order)
//  4. otherwise the expiry window decides; a negative parsed expiry means
//     cache indefinitely, while an absent or zero one compares as already
//     elapsed
func (e *Engine) IsExpired(ctx context.Context, target *domain.Target) (bool, error) {
	entry, err := e.Entry(ctx, target)
	if err != nil {
		return false, err
	}
	if !entry.HasRun() {
		return true, nil
	}
	if entry.BodyHash != target.BodyHash() {
		return true, nil
	}

	for _, expr := range target.Requires() {
		for _, dep := range document.FindTargets(target.Doc, expr) {
			depEntry, err := e.Entry(ctx, dep)
			if err != nil {
				return false, err
			}
			if depEntry.LastRun.After(entry.LastRun) {
				return true, nil
			}
		}
	}

	expiry := timeutil.ParseExpiry(target.Expiry())
	if expiry < 0 {
		return false, nil
	}
	return entry.LastRun.Add(expiry).Before(e.now()), nil
}

// Commit records a successful run: the finish timestamp and the body hash
// that produced it. Any `invalidates` expressions are then resolved and
// the resolved targets' entries deleted outright, forcing them stale on
// their next consideration.
func (e *Engine) Commit(ctx context.Context, target *domain.Target, finished time.Time) error {
	unlock, err := e.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock(ctx)

	entry, err := e.Entry(ctx, target)
	if err != nil {
		return err
	}
	entry.LastRun = finished
	entry.BodyHash = target.BodyHash()
	if err := e.store.Put(ctx, target.CacheKey(), entry); err != nil {
		return err
	}

	for _, expr := range target.Invalidates() {
		for _, victim := range document.FindTargets(target.Doc, expr) {
			if err := e.store.Delete(ctx, victim.CacheKey()); err != nil {
				return err
			}
			e.logger.Debug("invalidated cache entry",
				"target", victim.UniqueName, "by", target.UniqueName)
		}
	}
	return nil
}

// RecordImage stores a built container image identifier together with the
// build-spec hash that produced it, so later runs can reuse the image.
func (e *Engine) RecordImage(ctx context.Context, target *domain.Target, image, buildHash string) error {
	unlock, err := e.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock(ctx)

	entry, err := e.Entry(ctx, target)
	if err != nil {
		return err
	}
	entry.Image = image
	entry.BuildHash = buildHash
	return e.store.Put(ctx, target.CacheKey(), entry)
}

// Vars returns the store-wide variable map exported into step
// environments.
func (e *Engine) Vars(ctx context.Context) (map[string]string, error) {
	return e.store.LoadVars(ctx)
}

func (e *Engine) lock(ctx context.Context) (ports.UnlockFunc, error) {
	if e.locker == nil {
		return func(context.Context) error { return nil }, nil
	}
	return e.locker.Lock(ctx, lockKey, lockTTL)
}
