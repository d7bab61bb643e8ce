package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/c360/bookcatalog/errors"
)

// boundedEntry is the list payload for a cached key.
type boundedEntry[K comparable, V any] struct {
	key   K
	entry Entry[V]
}

// Bounded is a thread-safe, fixed-capacity cache with insertion-order FIFO
// eviction. Reads never change the eviction order, and replacing an existing
// key keeps its original position. When a Put of a new key exceeds the
// capacity, the single oldest-inserted entry is evicted.
//
// Each instance carries its own mutex; independent caches never contend.
// The eviction callback runs outside the lock.
type Bounded[K comparable, V any] struct {
	mu       sync.RWMutex
	capacity int
	items    map[K]*list.Element // key -> list element
	order    *list.List          // front is newest, back is oldest inserted
	stats    *Statistics         // ALWAYS initialized
	metrics  *cacheMetrics       // Optional, if metrics enabled
	evictFn  EvictCallback[K, V] // Optional callback
}

// NewBounded creates a bounded FIFO cache with the given capacity.
// Returns a classified invalid error for non-positive capacities, and an
// error if metrics registration fails when requested.
func NewBounded[K comparable, V any](capacity int, options ...Option[K, V]) (*Bounded[K, V], error) {
	if capacity <= 0 {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "cache", "NewBounded",
			fmt.Sprintf("capacity must be positive, got %d", capacity))
	}

	opts := applyOptions(options...)

	// Stats are ALWAYS initialized - observability is not optional
	stats := NewStatistics()

	var metrics *cacheMetrics
	// Optionally expose stats as Prometheus metrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		var err error
		metrics, err = newCacheMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.Wrap(err, "cache", "NewBounded", "metrics registration")
		}
	}

	return &Bounded[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
		stats:    stats,
		metrics:  metrics,
		evictFn:  opts.evictCallback,
	}, nil
}

// Get retrieves a value by key. FIFO order is unaffected by reads.
func (c *Bounded[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	element, exists := c.items[key]
	var value V
	if exists {
		value = element.Value.(*boundedEntry[K, V]).entry.Value
	}
	c.mu.RUnlock()

	if !exists {
		c.stats.Miss()
		if c.metrics != nil {
			c.metrics.misses.Inc()
		}
		var zero V
		return zero, false
	}

	c.stats.Hit()
	if c.metrics != nil {
		c.metrics.hits.Inc()
	}
	return value, true
}

// GetEntry retrieves the full entry for a key, including its insertion time.
// Like Get, it does not affect eviction order or hit/miss statistics.
func (c *Bounded[K, V]) GetEntry(key K) (Entry[V], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	element, exists := c.items[key]
	if !exists {
		return Entry[V]{}, false
	}
	return element.Value.(*boundedEntry[K, V]).entry, true
}

// Put inserts or replaces the entry for key, recording the current time.
// Replacing an existing key keeps its position in the eviction order.
// Inserting a new key beyond capacity evicts the oldest-inserted entry.
// Returns true if a new entry was created, false if an existing one was
// replaced.
func (c *Bounded[K, V]) Put(key K, value V) bool {
	now := time.Now()

	var evictKey K
	var evictValue V
	var evicted bool

	c.mu.Lock()

	if element, exists := c.items[key]; exists {
		// Replace with a fresh immutable entry; position is unchanged.
		element.Value = &boundedEntry[K, V]{key: key, entry: Entry[V]{Value: value, InsertedAt: now}}

		c.stats.Set()
		if c.metrics != nil {
			c.metrics.sets.Inc()
		}
		c.mu.Unlock()
		return false
	}

	element := c.order.PushFront(&boundedEntry[K, V]{key: key, entry: Entry[V]{Value: value, InsertedAt: now}})
	c.items[key] = element

	if len(c.items) > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			payload := oldest.Value.(*boundedEntry[K, V])
			evictKey = payload.key
			evictValue = payload.entry.Value
			evicted = true

			delete(c.items, payload.key)
			c.order.Remove(oldest)

			c.stats.Eviction()
			if c.metrics != nil {
				c.metrics.evictions.Inc()
			}
		}
	}

	c.stats.Set()
	c.stats.UpdateSize(int64(len(c.items)))
	if c.metrics != nil {
		c.metrics.sets.Inc()
		c.metrics.updateSize(len(c.items))
	}

	c.mu.Unlock()

	// Call eviction callback outside lock to prevent deadlock
	if evicted && c.evictFn != nil {
		c.evictFn(evictKey, evictValue)
	}

	return true
}

// Remove deletes the entry for key if present. No-op otherwise.
// Returns true if the key existed and was removed.
func (c *Bounded[K, V]) Remove(key K) bool {
	c.mu.Lock()

	element, exists := c.items[key]
	if !exists {
		c.mu.Unlock()
		return false
	}

	delete(c.items, key)
	c.order.Remove(element)

	c.stats.Delete()
	c.stats.UpdateSize(int64(len(c.items)))
	if c.metrics != nil {
		c.metrics.deletes.Inc()
		c.metrics.updateSize(len(c.items))
	}

	c.mu.Unlock()
	return true
}

// Clear removes all entries from the cache. Explicit removal is not an
// eviction, so the eviction callback is not invoked.
func (c *Bounded[K, V]) Clear() {
	c.mu.Lock()

	c.items = make(map[K]*list.Element)
	c.order.Init()

	c.stats.UpdateSize(0)
	if c.metrics != nil {
		c.metrics.updateSize(0)
	}

	c.mu.Unlock()
}

// Size returns the current number of entries in the cache.
func (c *Bounded[K, V]) Size() int {
	c.mu.RLock()
	size := len(c.items)
	c.mu.RUnlock()
	return size
}

// Capacity returns the fixed capacity of the cache.
func (c *Bounded[K, V]) Capacity() int {
	return c.capacity
}

// Keys returns all keys currently in the cache, oldest inserted first.
func (c *Bounded[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]K, 0, len(c.items))
	for element := c.order.Back(); element != nil; element = element.Prev() {
		keys = append(keys, element.Value.(*boundedEntry[K, V]).key)
	}
	return keys
}

// Stats returns the cache statistics tracker.
func (c *Bounded[K, V]) Stats() *Statistics {
	return c.stats
}
