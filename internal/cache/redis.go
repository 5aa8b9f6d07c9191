package cache

import (
	"context"
	"time"

	"github.com/wonny/rsystem/pkg/redis"
)

// RedisStore shares entries across processes through Redis
type RedisStore[V any] struct {
	cache *redis.Cache
	ttl   time.Duration
}

// NewRedisStore creates a store under prefix whose keys expire after ttl
func NewRedisStore[V any](client *redis.Client, prefix string, ttl time.Duration) *RedisStore[V] {
	return &RedisStore[V]{
		cache: redis.NewCache(client, prefix),
		ttl:   ttl,
	}
}

func (s *RedisStore[V]) Get(ctx context.Context, key string) (Entry[V], bool, error) {
	var entry Entry[V]
	found, err := s.cache.Get(ctx, key, &entry)
	if err != nil || !found {
		return Entry[V]{}, false, err
	}
	return entry, true, nil
}

func (s *RedisStore[V]) Set(ctx context.Context, key string, entry Entry[V]) error {
	return s.cache.Set(ctx, key, entry, s.ttl)
}

func (s *RedisStore[V]) Delete(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, key)
}

// Prune is a no-op: keys carry a Redis TTL and expire on their own
func (s *RedisStore[V]) Prune(context.Context, time.Time, time.Duration) (int, error) {
	return 0, nil
}

func (s *RedisStore[V]) Clear(ctx context.Context) (int, error) {
	return s.cache.DeleteAll(ctx)
}

// NewStore returns a Redis store when client is enabled and a memory store otherwise
func NewStore[V any](client *redis.Client, prefix string, ttl time.Duration) Store[V] {
	if client != nil && client.Enabled() {
		return NewRedisStore[V](client, prefix, ttl)
	}
	return NewMemoryStore[V]()
}
