package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/bookcatalog/entity"
	"github.com/c360/bookcatalog/errors"
	"github.com/c360/bookcatalog/pkg/cache"
	"github.com/c360/bookcatalog/store"
)

// countingStore wraps a store and counts calls, so tests can assert which
// operations were served from cache.
type countingStore[E any] struct {
	inner   store.Store[E]
	finds   int
	saves   int
	deletes int
	failAll error
}

func (s *countingStore[E]) FindByID(ctx context.Context, id entity.ID) (E, error) {
	s.finds++
	if s.failAll != nil {
		var zero E
		return zero, s.failAll
	}
	return s.inner.FindByID(ctx, id)
}

func (s *countingStore[E]) Save(ctx context.Context, e E) (E, error) {
	s.saves++
	if s.failAll != nil {
		var zero E
		return zero, s.failAll
	}
	return s.inner.Save(ctx, e)
}

func (s *countingStore[E]) Delete(ctx context.Context, id entity.ID) error {
	s.deletes++
	if s.failAll != nil {
		return s.failAll
	}
	return s.inner.Delete(ctx, id)
}

func (s *countingStore[E]) ExistsByID(ctx context.Context, id entity.ID) (bool, error) {
	return s.inner.ExistsByID(ctx, id)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBookAccessor(t *testing.T, capacity int) (*Accessor[*entity.Book], *countingStore[*entity.Book]) {
	t.Helper()
	counting := &countingStore[*entity.Book]{inner: store.NewMemory().Books()}
	c, err := cache.NewBounded[entity.ID, *entity.Book](capacity)
	require.NoError(t, err)
	return NewAccessor[*entity.Book]("book", counting, c, testLogger()), counting
}

func TestAccessorReadThrough(t *testing.T) {
	ctx := context.Background()
	accessor, counting := newBookAccessor(t, 3)

	saved, err := accessor.Save(ctx, &entity.Book{Title: "Dune", ChapterCount: 48, PublicationYear: 1965, Status: entity.StatusCompleted})
	require.NoError(t, err)
	accessor.cache.Clear()

	// First read misses the cache and hits the store.
	found, err := accessor.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", found.Title)
	assert.Equal(t, 1, counting.finds)

	// Second read is served from the cache.
	found, err = accessor.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", found.Title)
	assert.Equal(t, 1, counting.finds, "second read should not reach the store")
}

func TestAccessorMissNotFound(t *testing.T) {
	ctx := context.Background()
	accessor, counting := newBookAccessor(t, 3)

	_, err := accessor.FindByID(ctx, 42)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err), "not-found classification must survive the accessor")

	// Absence is not cached; a retry consults the store again.
	_, err = accessor.FindByID(ctx, 42)
	require.Error(t, err)
	assert.Equal(t, 2, counting.finds)
}

func TestAccessorWriteThrough(t *testing.T) {
	ctx := context.Background()
	accessor, counting := newBookAccessor(t, 3)

	saved, err := accessor.Save(ctx, &entity.Book{Title: "Hyperion", ChapterCount: 30, PublicationYear: 1989, Status: entity.StatusCompleted})
	require.NoError(t, err)
	require.NotZero(t, saved.ID, "store must assign an identifier")

	// The save populated the cache, so the read never touches the store.
	found, err := accessor.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hyperion", found.Title)
	assert.Equal(t, 0, counting.finds)
}

func TestAccessorDeleteInvalidates(t *testing.T) {
	ctx := context.Background()
	accessor, counting := newBookAccessor(t, 3)

	saved, err := accessor.Save(ctx, &entity.Book{Title: "Dune", ChapterCount: 48, PublicationYear: 1965, Status: entity.StatusCompleted})
	require.NoError(t, err)

	require.NoError(t, accessor.Delete(ctx, saved.ID))

	_, err = accessor.FindByID(ctx, saved.ID)
	assert.True(t, errors.IsNotFound(err), "deleted entity must not be served from cache")
	assert.Equal(t, 1, counting.finds, "read after delete should consult the store")
}

func TestAccessorStoreFailureLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	accessor, counting := newBookAccessor(t, 3)

	counting.failAll = errors.WrapTransient(errors.ErrStorageUnavailable, "test", "FindByID", "injected")

	_, err := accessor.FindByID(ctx, 1)
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))
	assert.Equal(t, 0, accessor.cache.Size(), "failed lookup must not populate the cache")

	_, err = accessor.Save(ctx, &entity.Book{Title: "Dune", ChapterCount: 48, PublicationYear: 1965, Status: entity.StatusCompleted})
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))
	assert.Equal(t, 0, accessor.cache.Size(), "failed save must not populate the cache")
}

func TestAccessorWarm(t *testing.T) {
	ctx := context.Background()
	accessor, counting := newBookAccessor(t, 10)

	var ids []entity.ID
	for _, title := range []string{"Dune", "Hyperion", "Neuromancer"} {
		saved, err := accessor.Save(ctx, &entity.Book{Title: title, ChapterCount: 10, PublicationYear: 1980, Status: entity.StatusCompleted})
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}
	accessor.cache.Clear()

	// A missing identifier is skipped, not an error.
	require.NoError(t, accessor.Warm(ctx, append(ids, 999)))
	assert.Equal(t, 3, accessor.cache.Size())

	// Everything warmed is now served without store traffic.
	counting.finds = 0
	for _, id := range ids {
		_, err := accessor.FindByID(ctx, id)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, counting.finds)
}
