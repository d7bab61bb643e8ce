// Package bookcatalog provides the core of a book catalog service: entities
// with authorship and commentary relationships, bounded FIFO caching in front
// of a store, and bulk ingestion that attaches candidate books to a user
// without creating duplicates.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│         catalog.Merger              │  Bulk authorship ingestion
//	│  (validate, dedup, classify, link)  │  with skip/reuse/create
//	└─────────────────────────────────────┘
//	           ↓ reads and writes via
//	┌─────────────────────────────────────┐
//	│        catalog.Accessor             │  Cache-aside per entity kind:
//	│ (read-through, write-through, warm) │  store is the source of truth
//	└─────────────────────────────────────┘
//	           ↓ backed by
//	┌──────────────────┐ ┌─────────────────┐
//	│  pkg/cache       │ │  store          │
//	│  Bounded FIFO    │ │  Store contracts│
//	│  cache + stats   │ │  + memory impl  │
//	└──────────────────┘ └─────────────────┘
//
// # Packages
//
//   - entity: Book, User, Comment types, status enum, natural keys
//   - store: generic Store contracts and the in-memory implementation with
//     relational cascade semantics
//   - pkg/cache: generic bounded FIFO cache with statistics and optional
//     Prometheus metrics
//   - catalog: the cache container, the cache-aside accessor, and the bulk
//     authorship merger
//   - errors: error classification and wrapping helpers
//   - metric: Prometheus registry wrapper and metrics HTTP server
//   - config: JSON file configuration with environment overrides
//   - cmd/catalogd: the service entry point
//
// See the package documentation of catalog for a wiring example.
package bookcatalog
