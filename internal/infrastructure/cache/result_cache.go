// Package cache provides the bounded in-memory store for classification
// results. State is process-local by design and lost on restart.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
)

const (
	DefaultCapacity = 1000
	DefaultTTL      = time.Hour
)

type entry struct {
	key        string
	value      domain.ClassificationResult
	insertedAt time.Time
}

// ResultCache is a TTL- and capacity-bounded key/value store. Eviction is by
// insertion order: when full, the least-recently-inserted entry goes first.
// A get never refreshes an entry's age.
type ResultCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]*list.Element
	order    *list.List

	now func() time.Time
}

func NewResultCache(capacity int, ttl time.Duration) *ResultCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		now:      time.Now,
	}
}

// Get returns the stored result for key. Expired entries count as absent even
// when not yet physically evicted.
func (c *ResultCache) Get(key string) (domain.ClassificationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return domain.ClassificationResult{}, false
	}
	ent := elem.Value.(*entry)
	if c.now().Sub(ent.insertedAt) > c.ttl {
		c.removeLocked(elem)
		return domain.ClassificationResult{}, false
	}
	return ent.value, true
}

// Put inserts or overwrites key, evicting the oldest entry when full.
func (c *ResultCache) Put(key string, value domain.ClassificationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		ent := elem.Value.(*entry)
		ent.value = value
		ent.insertedAt = c.now()
		c.order.MoveToBack(elem)
		return
	}

	for len(c.entries) >= c.capacity {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
	}

	elem := c.order.PushBack(&entry{key: key, value: value, insertedAt: c.now()})
	c.entries[key] = elem
}

// Clear empties the cache. Called on shutdown and by the administrative
// refresh endpoint.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// Len reports the number of stored entries, expired or not.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ResultCache) removeLocked(elem *list.Element) {
	ent := elem.Value.(*entry)
	delete(c.entries, ent.key)
	c.order.Remove(elem)
}

// WithClock overrides the time source. Test hook.
func (c *ResultCache) WithClock(now func() time.Time) *ResultCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}
