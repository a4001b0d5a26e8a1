// internal/matching/cache.go
package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"aidmatch-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL bounds how long a computed match result stays valid.
const DefaultCacheTTL = 5 * time.Minute

// Fingerprint builds the deterministic cache key for a profile from its
// salient fields, pipe-joined in fixed order.
func Fingerprint(p *models.UserProfile) string {
	return fmt.Sprintf("%s|%s|%.2f|%s|%t",
		p.EducationLevel, p.Major, p.GPA, p.Location, p.IsPellEligible)
}

// ResultCache memoizes full pipeline results keyed by profile fingerprint.
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.MatchResult, bool)
	Set(ctx context.Context, key string, result *models.MatchResult)
}

// cacheEntry pairs a result with its write time; validity is checked lazily
// at read time.
type cacheEntry struct {
	result   *models.MatchResult
	storedAt time.Time
}

// MemoryResultCache is a mutex-protected in-memory TTL cache. It is
// constructed once per application context and injected; there is no
// module-level singleton.
type MemoryResultCache struct {
	mu       sync.RWMutex
	entries  map[string]cacheEntry
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

func NewMemoryResultCache(ttl time.Duration, capacity int) *MemoryResultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if capacity < 1 {
		capacity = 1024
	}
	return &MemoryResultCache{
		entries:  make(map[string]cacheEntry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

func (c *MemoryResultCache) Get(_ context.Context, key string) (*models.MatchResult, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.now().Sub(entry.storedAt) >= c.ttl {
		// Expired entries behave as absent and are evicted on next lookup.
		c.mu.Lock()
		if current, still := c.entries[key]; still && current.storedAt.Equal(entry.storedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.result, true
}

func (c *MemoryResultCache) Set(_ context.Context, key string, result *models.MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictLocked()
	}
	c.entries[key] = cacheEntry{result: result, storedAt: c.now()}
}

// evictLocked removes expired entries, falling back to the oldest entry when
// nothing has expired yet. Caller holds the write lock.
func (c *MemoryResultCache) evictLocked() {
	now := c.now()
	var oldestKey string
	var oldestAt time.Time
	removed := false

	for key, entry := range c.entries {
		if now.Sub(entry.storedAt) >= c.ttl {
			delete(c.entries, key)
			removed = true
			continue
		}
		if oldestKey == "" || entry.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.storedAt
		}
	}

	if !removed && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// RedisResultCache stores results as JSON with a server-side TTL. Useful when
// several service instances should share memoized results; the in-memory
// cache is per-process only.
type RedisResultCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisResultCache(client *redis.Client, ttl time.Duration) *RedisResultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisResultCache{
		client: client,
		ttl:    ttl,
		prefix: "match:result:",
	}
}

func (c *RedisResultCache) Get(ctx context.Context, key string) (*models.MatchResult, bool) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		return nil, false
	}

	var result models.MatchResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (c *RedisResultCache) Set(ctx context.Context, key string, result *models.MatchResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.prefix+key, data, c.ttl)
}
