package edge

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// refreshCacheTTL bounds how long a refresh response is replayed to
// overlapping requests instead of hitting the backend again.
const refreshCacheTTL = 30 * time.Second

// refreshResult is what one upstream refresh call produced; cached entries
// replay the same Set-Cookie headers to requests that raced the refresh.
type refreshResult struct {
	status     int
	setCookies []string
}

type cacheEntry struct {
	result    refreshResult
	expiresAt time.Time
}

// refreshCache is a process-local TTL cache keyed by a digest of the
// refresh token.
type refreshCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func newRefreshCache() *refreshCache {
	return &refreshCache{entries: make(map[string]cacheEntry)}
}

// cacheKey digests the refresh token so the full credential never sits in
// the cache map as a key.
func cacheKey(refreshToken string) string {
	sum := sha256.Sum256([]byte(refreshToken))

	return hex.EncodeToString(sum[:])
}

func (c *refreshCache) get(key string, now time.Time) (refreshResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return refreshResult{}, false
	}
	if now.After(entry.expiresAt) {
		delete(c.entries, key)

		return refreshResult{}, false
	}

	return entry.result, true
}

func (c *refreshCache) set(key string, result refreshResult, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Drop whatever already expired while we hold the lock.
	for existing, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, existing)
		}
	}

	c.entries[key] = cacheEntry{result: result, expiresAt: now.Add(refreshCacheTTL)}
}
