// Package cache provides a thread-safe, fixed-capacity cache with FIFO
// eviction, built-in statistics tracking, and optional Prometheus metrics
// integration.
//
// # Overview
//
// The cache evicts by insertion order, not access order. This is deliberate:
// the cache is a recency hint over a write-through accessor layer, not a
// correctness-critical store, so the simpler and fully predictable FIFO
// policy wins over LRU. Three properties define the policy:
//
//   - Reads never change the eviction order.
//   - Replacing an existing key's value keeps its original position.
//   - Inserting a new key beyond capacity evicts exactly the oldest-inserted
//     entry.
//
// # Quick Start
//
//	c, err := cache.NewBounded[int64, *entity.Book](3)
//	if err != nil {
//		log.Fatal(err)
//	}
//	c.Put(1, bookA)
//	book, ok := c.Get(1)
//
// With metrics and an eviction callback:
//
//	c, err := cache.NewBounded[int64, *entity.Book](3,
//		cache.WithMetrics[int64, *entity.Book](registry, "book_cache"),
//		cache.WithEvictionCallback[int64, *entity.Book](func(key int64, _ *entity.Book) {
//			slog.Debug("book evicted from cache", "id", key)
//		}),
//	)
//
// # Observability Architecture
//
// The package implements a dual-tracking pattern:
//
// Statistics (always on):
//   - Tracks hits, misses, sets, deletes, and evictions with atomic counters
//   - Zero configuration, available via Stats()
//   - Provides computed values (hit ratio, max size, uptime)
//
// Prometheus metrics (optional):
//   - Enabled via WithMetrics()
//   - Exports the same counters plus a size gauge, labeled by component
//
// Both exist independently so that basic stats work in tests and minimal
// deployments without a Prometheus registry, while production deployments
// get time-series monitoring.
//
// Instrumentation is a side channel: no cache operation depends on stats,
// metrics, or the eviction callback for correctness, and eviction never
// fails.
//
// # Thread Safety
//
// All operations are safe for concurrent use. Each cache instance has its
// own mutex, so independent caches never contend with each other. The
// eviction callback is invoked outside the lock to prevent deadlocks; a
// callback that re-enters the cache observes it after the eviction has
// completed.
//
// # Performance Characteristics
//
//   - Get: O(1) map lookup under a read lock
//   - Put: O(1) map insert + list push, plus at most one O(1) eviction
//   - Remove: O(1) map delete + list remove
//   - Keys: O(n) in insertion order, oldest first
//
// No background goroutines are created and no entry carries a TTL; the only
// eviction trigger is capacity.
package cache
