package service

import (
	"sync"
	"time"

	"github.com/larsvdm/fieldtrack/internal/domain"
)

// reportCache keeps the latest report per window for a short TTL so dashboard
// refreshes do not hammer the vendor APIs.
type reportCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	report  *domain.Report
	expires time.Time
}

func newReportCache(ttl time.Duration) *reportCache {
	return &reportCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *reportCache) key(window domain.Window) string {
	return window.From + "|" + window.To
}

// Get returns the cached report for the window, or nil when absent or stale.
func (c *reportCache) Get(window domain.Window) *domain.Report {
	if c.ttl <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[c.key(window)]
	if !ok || time.Now().After(entry.expires) {
		delete(c.entries, c.key(window))
		return nil
	}
	return entry.report
}

// Set stores a report for the window.
func (c *reportCache) Set(window domain.Window, report *domain.Report) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[c.key(window)] = cacheEntry{
		report:  report,
		expires: time.Now().Add(c.ttl),
	}
}

// Invalidate drops the cached report for the window.
func (c *reportCache) Invalidate(window domain.Window) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, c.key(window))
}
