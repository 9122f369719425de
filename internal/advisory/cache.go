package advisory

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/taxwise/internal/credit"
	"github.com/dgraph-io/ristretto"
	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is how long a live response is reused.
const DefaultCacheTTL = time.Hour

// Cache stores advisory text by scenario.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
}

func cacheKey(provider string, delta credit.Delta) string {
	raw := fmt.Sprintf("%s|%s|%.2f|%d|%d", provider, delta.Scenario.Type, delta.Scenario.Amount, delta.Baseline, delta.Projected)
	sum := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("taxwise:advisory:%x", sum[:12])
}

// MemoryCache is an in-process cache backed by ristretto.
type MemoryCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewMemoryCache creates an in-process cache holding roughly maxEntries items.
func NewMemoryCache(maxEntries int64, ttl time.Duration) (*MemoryCache, error) {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	return &MemoryCache{cache: c, ttl: ttl}, nil
}

// Get implements Cache.
func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	v, ok := m.cache.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Set implements Cache. The write is visible to Get once Set returns.
func (m *MemoryCache) Set(_ context.Context, key, value string) error {
	if !m.cache.SetWithTTL(key, value, 1, m.ttl) {
		return errors.New("memory cache rejected entry")
	}
	m.cache.Wait()
	return nil
}

// Close releases the cache.
func (m *MemoryCache) Close() error {
	m.cache.Close()
	return nil
}

// RedisCache shares advisory responses across processes.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the Redis server at addr.
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:        addr,
			DialTimeout: 2 * time.Second,
			ReadTimeout: time.Second,
		}),
		ttl: ttl,
	}
}

// Get implements Cache. Connection failures are treated as misses.
func (r *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set implements Cache.
func (r *RedisCache) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

// Close closes the client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
