package cache

import (
	"time"
)

// EvictCallback is called when an entry is evicted from the cache.
// It receives the key and value of the evicted entry.
type EvictCallback[K comparable, V any] func(key K, value V)

// Entry pairs a cached value with its insertion timestamp.
// Entries are immutable: replacing a key's value installs a fresh Entry
// rather than mutating the existing one in place.
type Entry[V any] struct {
	Value      V
	InsertedAt time.Time
}

// Age returns how long the entry has been in the cache.
func (e Entry[V]) Age() time.Duration {
	return time.Since(e.InsertedAt)
}
