package catalog

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/c360/bookcatalog/entity"
	"github.com/c360/bookcatalog/errors"
	"github.com/c360/bookcatalog/pkg/cache"
	"github.com/c360/bookcatalog/store"
)

// warmConcurrency bounds the store fan-out during cache warm-up.
const warmConcurrency = 8

// Accessor implements the cache-aside pattern for one entity kind:
// read-through on miss, write-through on save, explicit invalidation on
// delete. The store is the source of truth; the cache is a hint and is only
// touched after the store operation has succeeded, so a store failure never
// leaves a partial cache mutation behind. No store call happens while the
// cache lock is held.
type Accessor[E entity.Identifiable] struct {
	kind   string
	store  store.Store[E]
	cache  *cache.Bounded[entity.ID, E]
	logger *slog.Logger
}

// NewAccessor creates a cache-aside accessor for one entity kind.
// The kind is used for logging and error context only.
func NewAccessor[E entity.Identifiable](kind string, st store.Store[E], c *cache.Bounded[entity.ID, E], logger *slog.Logger) *Accessor[E] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accessor[E]{
		kind:   kind,
		store:  st,
		cache:  c,
		logger: logger.With("kind", kind),
	}
}

// FindByID returns the entity with the given identifier. A cache hit is
// returned as-is, without verification against the store. On a miss the
// store is queried and, if the entity exists, the cache is populated with
// the fetched value. A store miss or failure leaves the cache untouched.
func (a *Accessor[E]) FindByID(ctx context.Context, id entity.ID) (E, error) {
	if value, ok := a.cache.Get(id); ok {
		return value, nil
	}

	value, err := a.store.FindByID(ctx, id)
	if err != nil {
		var zero E
		return zero, err
	}

	a.cache.Put(id, value)
	a.logger.Debug("cache populated on read-through", "id", id)
	return value, nil
}

// Save persists the entity via the store, then unconditionally overwrites
// the cache entry for the assigned identifier with the full persisted value.
// The cache is only updated after the store confirms success.
func (a *Accessor[E]) Save(ctx context.Context, e E) (E, error) {
	persisted, err := a.store.Save(ctx, e)
	if err != nil {
		var zero E
		return zero, errors.Wrap(err, "Accessor", "Save", a.kind+" persist")
	}

	a.cache.Put(persisted.EntityID(), persisted)
	return persisted, nil
}

// Delete removes the entity via the store, then drops any cached entry.
// The cache removal runs regardless of whether the store held a row, but
// only after the store delete returned without error.
func (a *Accessor[E]) Delete(ctx context.Context, id entity.ID) error {
	if err := a.store.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "Accessor", "Delete", a.kind+" delete")
	}

	a.cache.Remove(id)
	return nil
}

// Warm preloads the cache with the given identifiers using a bounded
// concurrent fan-out. Identifiers missing from the store are skipped;
// any other store error aborts the warm-up.
func (a *Accessor[E]) Warm(ctx context.Context, ids []entity.ID) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			if _, ok := a.cache.Get(id); ok {
				return nil
			}

			value, err := a.store.FindByID(ctx, id)
			if errors.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return errors.Wrap(err, "Accessor", "Warm", a.kind+" preload")
			}

			a.cache.Put(id, value)
			return nil
		})
	}

	return g.Wait()
}
