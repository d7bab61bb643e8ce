package catalog

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/bookcatalog/entity"
	"github.com/c360/bookcatalog/errors"
	"github.com/c360/bookcatalog/metric"
	"github.com/c360/bookcatalog/pkg/cache"
	"github.com/c360/bookcatalog/store"
)

// countingBookStore adds natural-key lookup counting on top of countingStore.
type countingBookStore struct {
	countingStore[*entity.Book]
	bookInner    store.BookStore
	naturalFinds int
}

func (s *countingBookStore) FindByNaturalKey(ctx context.Context, key entity.NaturalKey) (*entity.Book, error) {
	s.naturalFinds++
	return s.bookInner.FindByNaturalKey(ctx, key)
}

type mergerHarness struct {
	mem    *store.Memory
	users  *countingStore[*entity.User]
	books  *countingBookStore
	merger *Merger
	userID entity.ID
}

func newMergerHarness(t *testing.T) *mergerHarness {
	t.Helper()

	mem := store.NewMemory()
	users := &countingStore[*entity.User]{inner: mem.Users()}
	books := &countingBookStore{
		countingStore: countingStore[*entity.Book]{inner: mem.Books()},
		bookInner:     mem.Books(),
	}

	userCache, err := cache.NewBounded[entity.ID, *entity.User](10)
	require.NoError(t, err)
	bookCache, err := cache.NewBounded[entity.ID, *entity.Book](10)
	require.NoError(t, err)

	usersAccessor := NewAccessor[*entity.User]("user", users, userCache, testLogger())
	booksAccessor := NewAccessor[*entity.Book]("book", books, bookCache, testLogger())

	merger, err := NewMerger(usersAccessor, booksAccessor, books, nil, testLogger())
	require.NoError(t, err)

	user, err := usersAccessor.Save(context.Background(), &entity.User{Name: "paul", Email: "paul@example.com"})
	require.NoError(t, err)

	h := &mergerHarness{mem: mem, users: users, books: books, merger: merger, userID: user.ID}
	h.resetCounters()
	return h
}

func (h *mergerHarness) resetCounters() {
	h.users.finds, h.users.saves = 0, 0
	h.books.finds, h.books.saves = 0, 0
	h.books.naturalFinds = 0
}

func (h *mergerHarness) currentUser(t *testing.T) *entity.User {
	t.Helper()
	user, err := h.mem.Users().FindByID(context.Background(), h.userID)
	require.NoError(t, err)
	return user
}

func candidate(title string) BookCandidate {
	return BookCandidate{Title: title, ChapterCount: 48, PublicationYear: 1965, Status: entity.StatusCompleted}
}

func TestAttachBooksCreatesAndLinks(t *testing.T) {
	ctx := context.Background()
	h := newMergerHarness(t)

	added, err := h.merger.AttachBooks(ctx, h.userID, []BookCandidate{
		candidate("Dune"),
		candidate("Dune Messiah"),
	})
	require.NoError(t, err)
	require.Len(t, added, 2)

	for _, book := range added {
		assert.NotZero(t, book.ID)
		assert.True(t, book.HasAuthor(h.userID), "created book must list the user as author")
	}

	user := h.currentUser(t)
	assert.ElementsMatch(t, []entity.ID{added[0].ID, added[1].ID}, user.BookIDs)

	assert.Equal(t, 2, h.books.saves, "one save per created book")
	assert.Equal(t, 1, h.users.saves, "user persisted exactly once at the end")
}

func TestAttachBooksIntraBatchDuplicate(t *testing.T) {
	ctx := context.Background()
	h := newMergerHarness(t)

	added, err := h.merger.AttachBooks(ctx, h.userID, []BookCandidate{
		candidate("Dune"),
		candidate("Dune"),
		candidate("Hyperion"),
	})
	require.NoError(t, err)
	require.Len(t, added, 2, "repeated candidate must collapse to one book")

	assert.Equal(t, "Dune", added[0].Title)
	assert.Equal(t, "Hyperion", added[1].Title)
	assert.Equal(t, 2, h.books.saves)
	assert.Len(t, h.currentUser(t).BookIDs, 2)
}

func TestAttachBooksTitleWhitespaceNormalized(t *testing.T) {
	ctx := context.Background()
	h := newMergerHarness(t)

	added, err := h.merger.AttachBooks(ctx, h.userID, []BookCandidate{
		candidate("Dune"),
		candidate("  Dune  "),
	})
	require.NoError(t, err)
	require.Len(t, added, 1, "titles differing only in surrounding whitespace are the same book")
	assert.Equal(t, "Dune", added[0].Title)
}

func TestAttachBooksCrossAuthorConflict(t *testing.T) {
	ctx := context.Background()
	h := newMergerHarness(t)

	// Another user already owns this exact book.
	other, err := h.mem.Users().Save(ctx, &entity.User{Name: "leto", Email: "leto@example.com"})
	require.NoError(t, err)
	dune := candidate("Dune").toBook()
	dune.AddAuthor(other.ID)
	_, err = h.mem.Books().Save(ctx, dune)
	require.NoError(t, err)
	h.resetCounters()

	added, err := h.merger.AttachBooks(ctx, h.userID, []BookCandidate{candidate("Dune")})
	require.NoError(t, err)
	assert.Empty(t, added, "colliding candidate is excluded from the result")

	assert.Equal(t, 0, h.books.saves, "collision must not write books")
	assert.Equal(t, 0, h.users.saves, "nothing resolved, so the user is not persisted")
	assert.Empty(t, h.currentUser(t).BookIDs)
}

func TestAttachBooksReusesExistingAuthorship(t *testing.T) {
	ctx := context.Background()
	h := newMergerHarness(t)

	// The store already holds this book with the user among its authors,
	// but the user record is missing the back-link.
	dune := candidate("Dune").toBook()
	dune.AddAuthor(h.userID)
	stored, err := h.mem.Books().Save(ctx, dune)
	require.NoError(t, err)
	h.resetCounters()

	added, err := h.merger.AttachBooks(ctx, h.userID, []BookCandidate{candidate("Dune")})
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, stored.ID, added[0].ID, "stored book is reused, not recreated")

	assert.Equal(t, 0, h.books.saves, "reuse must not rewrite the book")
	assert.Equal(t, 1, h.users.saves)
	assert.Equal(t, []entity.ID{stored.ID}, h.currentUser(t).BookIDs)
}

func TestAttachBooksAlreadyAuthoredIsSkipped(t *testing.T) {
	ctx := context.Background()
	h := newMergerHarness(t)

	first, err := h.merger.AttachBooks(ctx, h.userID, []BookCandidate{candidate("Dune")})
	require.NoError(t, err)
	require.Len(t, first, 1)
	h.resetCounters()

	second, err := h.merger.AttachBooks(ctx, h.userID, []BookCandidate{candidate("Dune")})
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, 0, h.books.saves)
	assert.Equal(t, 0, h.users.saves)
	assert.Len(t, h.currentUser(t).BookIDs, 1)
}

func TestAttachBooksValidationFailsFast(t *testing.T) {
	ctx := context.Background()
	h := newMergerHarness(t)

	invalid := candidate("Hyperion")
	invalid.Status = "cancelled"

	_, err := h.merger.AttachBooks(ctx, h.userID, []BookCandidate{candidate("Dune"), invalid})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	field, ok := errors.ValidationField(err)
	require.True(t, ok)
	assert.Equal(t, "status", field)

	// Validation happens before any store traffic, so the valid candidate
	// must not have been committed.
	assert.Equal(t, 0, h.books.saves)
	assert.Equal(t, 0, h.users.saves)
	assert.Equal(t, 0, h.books.naturalFinds)
	assert.Empty(t, h.currentUser(t).BookIDs)
}

func TestAttachBooksEmptyInput(t *testing.T) {
	ctx := context.Background()
	h := newMergerHarness(t)

	added, err := h.merger.AttachBooks(ctx, h.userID, nil)
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Equal(t, 0, h.users.finds, "empty batch must not even load the user")
}

func TestAttachBooksFailedUserSaveLeavesCacheClean(t *testing.T) {
	ctx := context.Background()
	h := newMergerHarness(t)

	h.users.failAll = errors.WrapTransient(errors.ErrStorageUnavailable, "store", "Save", "persist user")

	_, err := h.merger.AttachBooks(ctx, h.userID, []BookCandidate{candidate("Dune")})
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))

	// The store never accepted the links, so neither the stored user nor
	// the cached one may carry them.
	h.users.failAll = nil
	assert.Empty(t, h.currentUser(t).BookIDs)

	h.users.finds = 0
	cached, err := h.merger.users.FindByID(ctx, h.userID)
	require.NoError(t, err)
	assert.Empty(t, cached.BookIDs, "cached user must match the store after a failed save")
	assert.Equal(t, 0, h.users.finds, "the user stays cached across the failure")
}

func TestAttachBooksFailedBookSaveLeavesCacheClean(t *testing.T) {
	ctx := context.Background()
	h := newMergerHarness(t)

	h.books.failAll = errors.WrapTransient(errors.ErrStorageUnavailable, "store", "Save", "persist book")

	_, err := h.merger.AttachBooks(ctx, h.userID, []BookCandidate{candidate("Dune")})
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))

	assert.Equal(t, 0, h.users.saves, "an aborted batch must not persist the user")
	assert.Empty(t, h.currentUser(t).BookIDs)

	h.books.failAll = nil
	h.users.finds = 0
	cached, err := h.merger.users.FindByID(ctx, h.userID)
	require.NoError(t, err)
	assert.Empty(t, cached.BookIDs)
	assert.Equal(t, 0, h.users.finds)
}

func TestAttachBooksUnknownUser(t *testing.T) {
	ctx := context.Background()
	h := newMergerHarness(t)

	_, err := h.merger.AttachBooks(ctx, 999, []BookCandidate{candidate("Dune")})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 0, h.books.saves)
}

func TestMergerOutcomeMetrics(t *testing.T) {
	ctx := context.Background()
	h := newMergerHarness(t)

	registry := metric.NewMetricsRegistry()
	merger, err := NewMerger(h.merger.users, h.merger.books, h.books, registry, testLogger())
	require.NoError(t, err)

	// Another user's book to provoke a conflict.
	other, err := h.mem.Users().Save(ctx, &entity.User{Name: "leto", Email: "leto@example.com"})
	require.NoError(t, err)
	taken := candidate("Taken").toBook()
	taken.AddAuthor(other.ID)
	_, err = h.mem.Books().Save(ctx, taken)
	require.NoError(t, err)

	_, err = merger.AttachBooks(ctx, h.userID, []BookCandidate{
		candidate("Dune"),
		candidate("Dune"),
		candidate("Taken"),
	})
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(merger.outcomes.WithLabelValues("created")))
	assert.Equal(t, float64(1), testutil.ToFloat64(merger.outcomes.WithLabelValues("duplicate_skipped")))
	assert.Equal(t, float64(1), testutil.ToFloat64(merger.outcomes.WithLabelValues("conflict_skipped")))
	assert.Equal(t, float64(0), testutil.ToFloat64(merger.outcomes.WithLabelValues("reused")))
}
