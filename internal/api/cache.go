package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/citescope/citescope/internal/metrics"
	"github.com/citescope/citescope/pkg/engine"
)

// ReportCache is a thread-safe LRU cache of analysis reports keyed by a
// hash of the analysis request.
type ReportCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*cacheEntry
	order   []string // oldest first
}

type cacheEntry struct {
	report *engine.Report
}

// NewReportCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 256.
func NewReportCache(maxSize int) *ReportCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &ReportCache{
		maxSize: maxSize,
		entries: make(map[string]*cacheEntry),
	}
}

// CacheKey hashes any JSON-encodable request into a cache key.
func CacheKey(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Get retrieves a report from the cache, or nil if not found.
func (c *ReportCache) Get(key string) *engine.Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		metrics.ReportCacheMisses.Inc()
		return nil
	}
	metrics.ReportCacheHits.Inc()

	// Move to end (most recently used)
	c.moveToEnd(key)
	return entry.report
}

// Put adds a report to the cache, evicting the oldest if full.
func (c *ReportCache) Put(key string, report *engine.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = &cacheEntry{report: report}
		c.moveToEnd(key)
		return
	}

	// Evict oldest if at capacity
	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = &cacheEntry{report: report}
	c.order = append(c.order, key)
}

// Purge drops every entry. Called when a model changes.
func (c *ReportCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
	c.order = nil
}

// Len returns the number of cached reports.
func (c *ReportCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ReportCache) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}
