// Package cache provides a TTL read-through cache keyed by string.
package cache

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wonny/rsystem/pkg/logger"
)

// Clock returns the current time; tests inject a fixed one
type Clock func() time.Time

// IsExpired reports whether an entry fetched at fetchedAt is stale at now
func IsExpired(now, fetchedAt time.Time, ttl time.Duration) bool {
	return now.Sub(fetchedAt) >= ttl
}

// Entry is a cached value and the time it was fetched
type Entry[V any] struct {
	Value     V         `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Store holds entries; implementations must be safe for concurrent use
type Store[V any] interface {
	Get(ctx context.Context, key string) (Entry[V], bool, error)
	Set(ctx context.Context, key string, entry Entry[V]) error
	Delete(ctx context.Context, key string) error
	// Prune drops entries expired at now and reports how many went
	Prune(ctx context.Context, now time.Time, ttl time.Duration) (int, error)
	// Clear drops every entry
	Clear(ctx context.Context) (int, error)
}

// ReadThrough serves fresh entries from the store and loads on miss or expiry
// ⭐ SSOT: every upstream response cache goes through this type
type ReadThrough[V any] struct {
	name   string
	store  Store[V]
	ttl    time.Duration
	now    Clock
	group  singleflight.Group
	logger *logger.Logger
}

// NewReadThrough creates a cache; a nil clock means time.Now
func NewReadThrough[V any](name string, store Store[V], ttl time.Duration, now Clock, log *logger.Logger) *ReadThrough[V] {
	if now == nil {
		now = time.Now
	}
	return &ReadThrough[V]{
		name:   name,
		store:  store,
		ttl:    ttl,
		now:    now,
		logger: log.WithField("cache", name),
	}
}

// Name returns the cache name used in logs
func (c *ReadThrough[V]) Name() string {
	return c.name
}

// Get returns the cached value for key, calling load when the entry is missing or expired.
// Concurrent misses for one key share a single load. Load errors are returned and not cached.
// The shared load ignores the first caller's cancellation and is bounded by the upstream client timeouts;
// a canceled caller stops waiting without failing the others.
func (c *ReadThrough[V]) Get(ctx context.Context, key string, load func(ctx context.Context) (V, error)) (V, error) {
	var zero V
	if entry, ok := c.fresh(ctx, key); ok {
		return entry.Value, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		// Another caller may have filled the entry while we waited
		if entry, ok := c.fresh(loadCtx, key); ok {
			return entry.Value, nil
		}

		value, err := load(loadCtx)
		if err != nil {
			return value, err
		}

		entry := Entry[V]{Value: value, FetchedAt: c.now()}
		if err := c.store.Set(loadCtx, key, entry); err != nil {
			c.logger.WithError(err).WithField("key", key).Warn("Cache store failed")
		}

		c.logger.WithField("key", key).Debug("Cache filled")
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, fmt.Errorf("%s cache load %s: %w", c.name, key, ctx.Err())
	case res := <-ch:
		if res.Shared {
			c.logger.WithField("key", key).Debug("Cache load shared")
		}
		if res.Err != nil {
			return zero, fmt.Errorf("%s cache load %s: %w", c.name, key, res.Err)
		}
		value, _ := res.Val.(V)
		return value, nil
	}
}

// fresh returns the stored entry when present and unexpired
func (c *ReadThrough[V]) fresh(ctx context.Context, key string) (Entry[V], bool) {
	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
		return Entry[V]{}, false
	}
	if !ok || IsExpired(c.now(), entry.FetchedAt, c.ttl) {
		return Entry[V]{}, false
	}
	return entry, true
}

// Invalidate drops one key
func (c *ReadThrough[V]) Invalidate(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

// PurgeExpired drops entries past their TTL
func (c *ReadThrough[V]) PurgeExpired(ctx context.Context) (int, error) {
	return c.store.Prune(ctx, c.now(), c.ttl)
}

// PurgeAll drops every entry
func (c *ReadThrough[V]) PurgeAll(ctx context.Context) (int, error) {
	return c.store.Clear(ctx)
}

// Purger is the type-erased view used by maintenance jobs and admin endpoints
type Purger interface {
	Name() string
	PurgeExpired(ctx context.Context) (int, error)
	PurgeAll(ctx context.Context) (int, error)
}
