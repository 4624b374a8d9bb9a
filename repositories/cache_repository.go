package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/karlseguin/ccache/v3"
	"go.uber.org/zap"

	"rentals-api/dto"
)

const (
	localTTL      = 5 * time.Minute
	generationKey = "search:generation"
)

// CachedSearch is one cached page of projected results.
type CachedSearch struct {
	Results []dto.PropertyView `json:"results"`
	Total   int64              `json:"total"`
}

// RemoteCache is the shared second level behind the in-process cache.
type RemoteCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	Name() string
}

// CacheRepository caches search pages in two levels and versions them with a
// generation counter so that a single bump invalidates every replica.
type CacheRepository interface {
	Get(ctx context.Context, key string) (*CachedSearch, bool)
	Set(ctx context.Context, key string, value *CachedSearch, ttl time.Duration)
	DeletePrefix(prefix string) int
	Generation(ctx context.Context) string
	BumpGeneration(ctx context.Context) string
	Close()
}

type cacheRepository struct {
	localCache *ccache.Cache[*CachedSearch]
	remote     RemoteCache
	localGen   atomic.Int64
	logger     *zap.Logger
}

// NewCacheRepository builds the cache. remote may be nil, in which case only
// the local level and a process-local generation are used.
func NewCacheRepository(remote RemoteCache, logger *zap.Logger) CacheRepository {
	localCache := ccache.New(ccache.Configure[*CachedSearch]().MaxSize(1000))

	if remote != nil {
		logger.Info("Cache repository initialized", zap.String("remote", remote.Name()))
	} else {
		logger.Info("Cache repository initialized without a remote level")
	}

	return &cacheRepository{
		localCache: localCache,
		remote:     remote,
		logger:     logger,
	}
}

// Get looks in the local cache first, then the remote one. Remote hits are
// copied into the local cache.
func (r *cacheRepository) Get(ctx context.Context, key string) (*CachedSearch, bool) {
	// 1. Local
	item := r.localCache.Get(key)
	if item != nil && !item.Expired() {
		r.logger.Debug("Cache HIT (local)", zap.String("key", key))
		return item.Value(), true
	}

	if r.remote == nil {
		r.logger.Debug("Cache MISS", zap.String("key", key))
		return nil, false
	}

	// 2. Remote
	raw, found, err := r.remote.Get(ctx, key)
	if err != nil {
		r.logger.Warn("Error reading remote cache", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !found {
		r.logger.Debug("Cache MISS", zap.String("key", key))
		return nil, false
	}

	var data CachedSearch
	if err := json.Unmarshal(raw, &data); err != nil {
		r.logger.Warn("Error unmarshaling remote cache data", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	// 3. Promote
	r.localCache.Set(key, &data, localTTL)
	r.logger.Debug("Cache HIT (remote)", zap.String("key", key), zap.String("remote", r.remote.Name()))
	return &data, true
}

// Set stores the value locally for localTTL and remotely for ttl.
func (r *cacheRepository) Set(ctx context.Context, key string, value *CachedSearch, ttl time.Duration) {
	r.localCache.Set(key, value, localTTL)

	if r.remote == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("Error marshaling cache data", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.remote.Set(ctx, key, raw, ttl); err != nil {
		r.logger.Warn("Error writing remote cache", zap.String("key", key), zap.Error(err))
		return
	}
	r.logger.Debug("Cache SET", zap.String("key", key), zap.Duration("ttl", ttl))
}

// DeletePrefix drops matching local entries. Remote entries are not scanned;
// they become unreachable once the generation moves on and expire by TTL.
func (r *cacheRepository) DeletePrefix(prefix string) int {
	return r.localCache.DeletePrefix(prefix)
}

// Generation returns the current key namespace. Remote generations look like
// "g12"; when the remote level is absent or failing a process-local "l3" is
// used instead.
func (r *cacheRepository) Generation(ctx context.Context) string {
	if r.remote != nil {
		n, err := r.remoteGeneration(ctx)
		if err == nil {
			return fmt.Sprintf("g%d", n)
		}
		r.logger.Warn("Falling back to local cache generation", zap.Error(err))
	}
	return fmt.Sprintf("l%d", r.localGen.Load())
}

func (r *cacheRepository) remoteGeneration(ctx context.Context) (int64, error) {
	raw, found, err := r.remote.Get(ctx, generationKey)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return parseCounter(raw)
}

// BumpGeneration advances both counters and returns the new namespace.
func (r *cacheRepository) BumpGeneration(ctx context.Context) string {
	local := r.localGen.Add(1)
	if r.remote != nil {
		n, err := r.remote.Incr(ctx, generationKey)
		if err == nil {
			return fmt.Sprintf("g%d", n)
		}
		r.logger.Warn("Error bumping remote cache generation", zap.Error(err))
	}
	return fmt.Sprintf("l%d", local)
}

func (r *cacheRepository) Close() {
	r.localCache.Stop()
}
