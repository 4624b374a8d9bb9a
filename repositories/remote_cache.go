package repositories

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/redis/go-redis/v9"
)

type memcachedCache struct {
	client *memcache.Client
}

// NewMemcachedCache connects the remote level to one or more memcached servers.
func NewMemcachedCache(servers ...string) RemoteCache {
	return &memcachedCache{client: memcache.New(servers...)}
}

func (m *memcachedCache) Name() string { return "memcached" }

func (m *memcachedCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	item, err := m.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return item.Value, true, nil
}

func (m *memcachedCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(ttl.Seconds()),
	})
}

// Incr increments a counter, creating it on first use. Add loses the race
// when another replica creates the key first, so the increment is retried.
func (m *memcachedCache) Incr(_ context.Context, key string) (int64, error) {
	n, err := m.client.Increment(key, 1)
	if err == nil {
		return int64(n), nil
	}
	if !errors.Is(err, memcache.ErrCacheMiss) {
		return 0, err
	}

	err = m.client.Add(&memcache.Item{Key: key, Value: []byte("1")})
	if err == nil {
		return 1, nil
	}
	if !errors.Is(err, memcache.ErrNotStored) {
		return 0, err
	}
	n, err = m.client.Increment(key, 1)
	return int64(n), err
}

type redisCache struct {
	client *redis.Client
}

// NewRedisCache wraps a go-redis client as the remote level.
func NewRedisCache(client *redis.Client) RemoteCache {
	return &redisCache{client: client}
}

func (r *redisCache) Name() string { return "redis" }

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCache) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

// parseCounter reads a counter value written by Incr.
func parseCounter(raw []byte) (int64, error) {
	return strconv.ParseInt(string(raw), 10, 64)
}
