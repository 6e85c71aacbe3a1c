package pager

import (
	"sync"

	"mash-db/internal/common"
)

// Page is a single fixed-size page buffer
type Page struct {
	Data [common.PageSize]byte
}

// PageCache holds the pages of one file, addressed by page number.
// Pages are never evicted: a cached page stays until Clear is called.
type PageCache struct {
	slots  []*Page
	size   int
	mu     sync.RWMutex
	hits   uint64
	misses uint64
}

// NewPageCache creates a cache with room for capacity pages
func NewPageCache(capacity int) *PageCache {
	if capacity <= 0 {
		capacity = common.MaxPages
	}
	return &PageCache{
		slots: make([]*Page, capacity),
	}
}

// Get retrieves a page from the cache
// Returns nil if not found
func (c *PageCache) Get(pageNum uint32) *Page {
	c.mu.Lock()
	defer c.mu.Unlock()

	if int(pageNum) < len(c.slots) && c.slots[pageNum] != nil {
		c.hits++
		return c.slots[pageNum]
	}
	c.misses++
	return nil
}

// Put stores a page at the given slot, replacing any previous page
func (c *PageCache) Put(pageNum uint32, page *Page) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if int(pageNum) >= len(c.slots) {
		return
	}
	if c.slots[pageNum] == nil {
		c.size++
	}
	c.slots[pageNum] = page
}

// Contains checks if a page is in the cache
func (c *PageCache) Contains(pageNum uint32) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int(pageNum) < len(c.slots) && c.slots[pageNum] != nil
}

// Size returns the current number of pages in the cache
func (c *PageCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

// Capacity returns the number of page slots
func (c *PageCache) Capacity() int {
	return len(c.slots)
}

// Stats returns cache hit/miss statistics
func (c *PageCache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// HitRate returns the cache hit rate as a percentage
func (c *PageCache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total) * 100
}

// ForEach visits cached pages in ascending page number order
func (c *PageCache) ForEach(fn func(pageNum uint32, page *Page) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i, page := range c.slots {
		if page == nil {
			continue
		}
		if !fn(uint32(i), page) {
			return
		}
	}
}

// Clear drops every cached page
func (c *PageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.slots)
	c.size = 0
}

// NewPage creates a new zero-filled page
func NewPage() *Page {
	return &Page{}
}
