package catalog

import (
	"fmt"
	"log/slog"

	"github.com/c360/bookcatalog/entity"
	"github.com/c360/bookcatalog/errors"
	"github.com/c360/bookcatalog/metric"
	"github.com/c360/bookcatalog/pkg/cache"
)

// CacheConfig holds the per-kind cache capacities.
type CacheConfig struct {
	// BookCapacity is the maximum number of cached books.
	BookCapacity int `json:"book_capacity" schema:"editable,type:int,description:Maximum number of cached books,min:1"`

	// UserCapacity is the maximum number of cached users.
	UserCapacity int `json:"user_capacity" schema:"editable,type:int,description:Maximum number of cached users,min:1"`

	// CommentCapacity is the maximum number of cached comments.
	CommentCapacity int `json:"comment_capacity" schema:"editable,type:int,description:Maximum number of cached comments,min:1"`
}

// DefaultCacheConfig returns the default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		BookCapacity:    3,
		UserCapacity:    3,
		CommentCapacity: 3,
	}
}

// Validate checks if the configuration is valid.
func (c CacheConfig) Validate() error {
	if c.BookCapacity <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "CacheConfig", "Validate",
			fmt.Sprintf("book_capacity must be positive, got %d", c.BookCapacity))
	}
	if c.UserCapacity <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "CacheConfig", "Validate",
			fmt.Sprintf("user_capacity must be positive, got %d", c.UserCapacity))
	}
	if c.CommentCapacity <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "CacheConfig", "Validate",
			fmt.Sprintf("comment_capacity must be positive, got %d", c.CommentCapacity))
	}
	return nil
}

// Container owns one bounded cache per entity kind. The caches are fully
// independent: each has its own capacity, its own lock, and its own eviction
// log; nothing cross-invalidates between kinds.
type Container struct {
	books    *cache.Bounded[entity.ID, *entity.Book]
	users    *cache.Bounded[entity.ID, *entity.User]
	comments *cache.Bounded[entity.ID, *entity.Comment]
}

// NewContainer creates the three entity caches from the given configuration.
// Evictions are logged at debug level. If registry is non-nil, each cache
// exports Prometheus metrics under its own component label.
func NewContainer(cfg CacheConfig, registry *metric.MetricsRegistry, logger *slog.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	books, err := newKindCache[*entity.Book](cfg.BookCapacity, "book_cache", registry, logger)
	if err != nil {
		return nil, err
	}
	users, err := newKindCache[*entity.User](cfg.UserCapacity, "user_cache", registry, logger)
	if err != nil {
		return nil, err
	}
	comments, err := newKindCache[*entity.Comment](cfg.CommentCapacity, "comment_cache", registry, logger)
	if err != nil {
		return nil, err
	}

	return &Container{books: books, users: users, comments: comments}, nil
}

// newKindCache builds one bounded cache with eviction logging and optional metrics.
func newKindCache[V any](capacity int, component string, registry *metric.MetricsRegistry, logger *slog.Logger) (*cache.Bounded[entity.ID, V], error) {
	opts := []cache.Option[entity.ID, V]{
		cache.WithEvictionCallback[entity.ID, V](func(key entity.ID, _ V) {
			logger.Debug("cache entry evicted", "cache", component, "id", key)
		}),
	}
	if registry != nil {
		opts = append(opts, cache.WithMetrics[entity.ID, V](registry, component))
	}

	c, err := cache.NewBounded(capacity, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "Container", "newKindCache", component)
	}
	return c, nil
}

// Books returns the book cache.
func (c *Container) Books() *cache.Bounded[entity.ID, *entity.Book] { return c.books }

// Users returns the user cache.
func (c *Container) Users() *cache.Bounded[entity.ID, *entity.User] { return c.users }

// Comments returns the comment cache.
func (c *Container) Comments() *cache.Bounded[entity.ID, *entity.Comment] { return c.comments }
