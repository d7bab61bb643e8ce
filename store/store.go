// Package store defines the persistence contracts for catalog entities and
// provides an in-memory reference implementation.
package store

import (
	"context"

	"github.com/c360/bookcatalog/entity"
)

// Store is the persistence contract shared by all entity kinds.
// Implementations assign identifiers on first save and must be safe for
// concurrent use from multiple goroutines.
type Store[E any] interface {
	// FindByID retrieves an entity by identifier.
	// Returns a classified not-found error if the entity does not exist.
	FindByID(ctx context.Context, id entity.ID) (E, error)

	// Save persists an entity, assigning an identifier on first save.
	// Returns the persisted entity with its identifier populated.
	Save(ctx context.Context, e E) (E, error)

	// Delete removes an entity by identifier. No-op if absent.
	Delete(ctx context.Context, id entity.ID) error

	// ExistsByID reports whether an entity with the identifier exists.
	ExistsByID(ctx context.Context, id entity.ID) (bool, error)
}

// BookStore persists books. In addition to the common operations it supports
// natural-key lookup, used by bulk ingestion to detect duplicate records.
type BookStore interface {
	Store[*entity.Book]

	// FindByNaturalKey retrieves the book matching the given natural key.
	// Returns a classified not-found error if no such book exists.
	FindByNaturalKey(ctx context.Context, key entity.NaturalKey) (*entity.Book, error)
}

// UserStore persists users.
type UserStore interface {
	Store[*entity.User]
}

// CommentStore persists comments.
type CommentStore interface {
	Store[*entity.Comment]
}
