package cache

import (
	"sync"
	"time"
)

// GlobalFeedKey is the single cache key for the rendered global feed.
const GlobalFeedKey = "feed:index"

// DefaultPageTTL is how long a cached global feed page stays valid.
// Writes never invalidate the slot; staleness inside this window is an
// accepted trade-off.
const DefaultPageTTL = 20 * time.Second

// PageCache is a single-slot TTL cache for the rendered first page of
// the global feed. It is backed by Redis when available and otherwise by
// an in-process slot. Concurrent recomputation on expiry is tolerated.
type PageCache struct {
	redis *Cache
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	value   []byte
	expires time.Time
}

// NewPageCache creates a page cache. redisCache may be nil, in which
// case the slot lives in process memory.
func NewPageCache(redisCache *Cache, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{
		redis: redisCache,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached page if it has not expired.
func (p *PageCache) Get() ([]byte, bool) {
	if p.redis != nil {
		// Any Redis failure is treated as a miss; the page is recomputed.
		val, err := p.redis.Get(GlobalFeedKey)
		if err != nil {
			return nil, false
		}
		return []byte(val), true
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.value == nil || p.now().After(p.expires) {
		return nil, false
	}
	return p.value, true
}

// Set stores the page with a fresh TTL.
func (p *PageCache) Set(value []byte) {
	if p.redis != nil {
		// Best effort; a failed write just means the next read recomputes.
		_ = p.redis.Set(GlobalFeedKey, value, p.ttl)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = value
	p.expires = p.now().Add(p.ttl)
}

// GetOrCompute returns the cached page, recomputing and storing it on a
// miss or after expiry.
func (p *PageCache) GetOrCompute(compute func() ([]byte, error)) ([]byte, error) {
	if val, ok := p.Get(); ok {
		return val, nil
	}
	val, err := compute()
	if err != nil {
		return nil, err
	}
	p.Set(val)
	return val, nil
}
