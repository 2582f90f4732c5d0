package matching

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"fridgesearch/internal/models"
)

// cacheEntry is one cached, fully ranked result list.
type cacheEntry struct {
	results   []models.MatchResult
	recipeIDs map[string]struct{}
	expiresAt time.Time
}

type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// ResultCache absorbs repeated queries within a short window. Entries are
// keyed on the resolved query shape, expire on a short TTL because the
// recipe catalog keeps changing, and are evicted eagerly when the recipe
// index changes for any recipe in a cached result set. The cache is an
// optimization only: a hit and a recompute must return identical results.
type ResultCache struct {
	ttl   time.Duration
	mu    sync.RWMutex
	store map[string]cacheEntry
	stats cacheStats
	stop  chan struct{}
}

// NewResultCache creates a cache and starts its expiry sweeper.
func NewResultCache(ttl time.Duration) *ResultCache {
	c := &ResultCache{
		ttl:   ttl,
		store: make(map[string]cacheEntry),
		stop:  make(chan struct{}),
	}
	go c.sweep()
	return c
}

// CacheKey derives the cache key from the sorted, deduplicated resolved
// ingredient ids plus every parameter that changes the result order, never
// from the raw input, so queries differing only in token order, casing or
// duplicates share an entry. The expiring set participates because the
// pre-sort pass depends on it.
func CacheKey(ids map[string]struct{}, query *models.MatchQuery, expiring map[string]struct{}) string {
	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	var expSorted []string
	if query.PrioritizeExpiring {
		expSorted = make([]string, 0, len(expiring))
		for id := range expiring {
			expSorted = append(expSorted, id)
		}
		sort.Strings(expSorted)
	}

	raw := fmt.Sprintf("%s|%s|%s|%.2f|%t|%s",
		strings.Join(sorted, ","),
		query.Mode,
		query.Ranking,
		query.MinMatchPercent,
		query.PrioritizeExpiring,
		strings.Join(expSorted, ","),
	)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached results for a key, or false on miss or expiry.
func (c *ResultCache) Get(key string) ([]models.MatchResult, bool) {
	c.mu.RLock()
	entry, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		if !ok {
			c.stats.misses++
		} else {
			delete(c.store, key)
			c.stats.evictions++
			c.stats.misses++
		}
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.stats.hits++
	c.mu.Unlock()
	return entry.results, true
}

// Put stores a ranked result list. Concurrent puts for the same key are
// last-writer-wins; recomputation is idempotent so either copy is correct.
func (c *ResultCache) Put(key string, results []models.MatchResult) {
	recipeIDs := make(map[string]struct{}, len(results))
	for _, r := range results {
		recipeIDs[r.RecipeID] = struct{}{}
	}

	c.mu.Lock()
	c.store[key] = cacheEntry{
		results:   results,
		recipeIDs: recipeIDs,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// InvalidateRecipes evicts every entry whose result set contains one of the
// given recipes. Called when the recipe index is patched.
func (c *ResultCache) InvalidateRecipes(recipeIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.store {
		for _, id := range recipeIDs {
			if _, ok := entry.recipeIDs[id]; ok {
				delete(c.store, key)
				c.stats.evictions++
				break
			}
		}
	}
}

// Purge drops every entry. Called on bulk index rebuilds.
func (c *ResultCache) Purge() {
	c.mu.Lock()
	c.stats.evictions += int64(len(c.store))
	c.store = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of live entries.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Stats returns cumulative hit, miss and eviction counts.
func (c *ResultCache) Stats() (hits, misses, evictions int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats.hits, c.stats.misses, c.stats.evictions
}

// Close stops the expiry sweeper.
func (c *ResultCache) Close() {
	close(c.stop)
}

func (c *ResultCache) sweep() {
	interval := c.ttl
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for key, entry := range c.store {
				if now.After(entry.expiresAt) {
					delete(c.store, key)
					c.stats.evictions++
				}
			}
			c.mu.Unlock()
		}
	}
}
