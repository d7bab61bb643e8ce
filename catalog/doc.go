// Package catalog implements the caching layer of the catalog service and
// the bulk authorship merge used when attaching batches of books to a user.
//
// # Components
//
// Container owns one bounded FIFO cache per entity kind (book, user,
// comment). The caches are independently sized and independently locked;
// nothing cross-invalidates between kinds, and callers must know which cache
// they want.
//
// Accessor layers the cache-aside pattern over a store and one of the
// container's caches:
//
//   - FindByID: cache first; on miss, query the store and populate the cache
//     only when the entity exists
//   - Save: store first; on success, overwrite the cache entry with the full
//     persisted value
//   - Delete: store first; then drop the cache entry unconditionally
//   - Warm: bounded concurrent preload of a set of identifiers
//
// Store failures propagate and leave the cache untouched. Because the store
// call and the cache mutation are separate critical sections, a cache can
// briefly lag a concurrently-completing store write; that staleness is
// accepted, as the cache is a recency hint rather than a source of truth.
//
// Merger resolves candidate books against the target user's in-memory state
// and the store, classifying each candidate as a duplicate (skip), a
// cross-author collision (skip, to avoid claiming someone else's book on a
// title match), a stored book to reuse, or a genuinely new book to persist.
// The user is saved exactly once at the end of a batch that attached
// anything, which also refreshes the user's cache entry through the
// accessor's write-through.
//
// # Wiring
//
//	container, err := catalog.NewContainer(catalog.DefaultCacheConfig(), registry, logger)
//	books := catalog.NewAccessor("book", mem.Books(), container.Books(), logger)
//	users := catalog.NewAccessor("user", mem.Users(), container.Users(), logger)
//	merger, err := catalog.NewMerger(users, books, mem.Books(), registry, logger)
//
//	attached, err := merger.AttachBooks(ctx, userID, candidates)
package catalog
