package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/bookcatalog/entity"
	"github.com/c360/bookcatalog/errors"
	"github.com/c360/bookcatalog/metric"
	"github.com/c360/bookcatalog/store"
)

// BookCandidate describes a book submitted through bulk ingestion, before it
// has a store identity.
type BookCandidate struct {
	Title           string        `json:"title"`
	ChapterCount    int           `json:"chapter_count"`
	PublicationYear int           `json:"publication_year"`
	Status          entity.Status `json:"status"`
}

// naturalKey returns the duplicate-detection key for the candidate.
func (c BookCandidate) naturalKey() entity.NaturalKey {
	return entity.NaturalKey{
		Title:           strings.TrimSpace(c.Title),
		ChapterCount:    c.ChapterCount,
		PublicationYear: c.PublicationYear,
		Status:          c.Status,
	}
}

// validate checks the candidate field by field, reporting the first
// offending field through a ValidationError.
func (c BookCandidate) validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.Validation("title", "must not be empty")
	}
	if c.ChapterCount < 0 {
		return errors.Validation("chapter_count", "must not be negative")
	}
	if c.PublicationYear < 0 {
		return errors.Validation("publication_year", "must not be negative")
	}
	if !c.Status.Valid() {
		return errors.Validation("status", "must be one of announced, ongoing, completed, frozen")
	}
	return nil
}

// toBook converts the candidate into an unpersisted book with a normalized title.
func (c BookCandidate) toBook() *entity.Book {
	return &entity.Book{
		Title:           strings.TrimSpace(c.Title),
		ChapterCount:    c.ChapterCount,
		PublicationYear: c.PublicationYear,
		Status:          c.Status,
	}
}

// resolutionKind tags the outcome of classifying one candidate.
type resolutionKind int

const (
	// resolutionCreate: no matching book anywhere, persist a new row.
	resolutionCreate resolutionKind = iota

	// resolutionReuse: the store already holds this book with the target
	// user among its authors; reuse the stored row.
	resolutionReuse

	// resolutionDuplicate: the user already has this book, either from
	// before the call or from an earlier candidate in the same batch.
	resolutionDuplicate

	// resolutionConflict: the store holds this book under different
	// authors; claiming it would hijack someone else's work.
	resolutionConflict
)

// String returns the metrics label for the resolution kind.
func (k resolutionKind) String() string {
	switch k {
	case resolutionCreate:
		return "created"
	case resolutionReuse:
		return "reused"
	case resolutionDuplicate:
		return "duplicate_skipped"
	case resolutionConflict:
		return "conflict_skipped"
	default:
		return "unknown"
	}
}

// resolution is the tagged outcome of classifying one candidate. book is set
// for resolutionCreate (the unpersisted new row) and resolutionReuse (the
// stored row); it is nil for both skip kinds.
type resolution struct {
	kind resolutionKind
	book *entity.Book
}

// Merger attaches batches of candidate books to a user without creating
// duplicate book rows or duplicate authorship links.
//
// Candidates are processed strictly in input order, so later candidates
// deduplicate against books added earlier in the same call. Classification
// happens purely over natural-key comparisons in memory; the store is
// consulted for lookups and for the minimal set of writes.
//
// Two concurrent calls for the same user are not serialized: both may load
// the same user state and race on the final user save. Callers that need
// strict serialization per user must provide it themselves.
type Merger struct {
	users     *Accessor[*entity.User]
	books     *Accessor[*entity.Book]
	bookStore store.BookStore
	logger    *slog.Logger
	outcomes  *prometheus.CounterVec // optional
}

// NewMerger creates a bulk authorship merger. The book store is used for
// natural-key lookups; all other reads and writes go through the accessors
// so the caches stay populated. If registry is non-nil, per-outcome counters
// are exported.
func NewMerger(
	users *Accessor[*entity.User],
	books *Accessor[*entity.Book],
	bookStore store.BookStore,
	registry *metric.MetricsRegistry,
	logger *slog.Logger,
) (*Merger, error) {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Merger{
		users:     users,
		books:     books,
		bookStore: bookStore,
		logger:    logger,
	}

	if registry != nil {
		outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookcatalog",
			Subsystem: "merger",
			Name:      "outcomes_total",
			Help:      "Bulk merge candidate outcomes by kind",
		}, []string{"outcome"})
		if err := registry.RegisterCounterVec("bulk_merger", "outcomes", outcomes); err != nil {
			return nil, errors.Wrap(err, "Merger", "NewMerger", "metrics registration")
		}
		m.outcomes = outcomes
	}

	return m, nil
}

// AttachBooks attaches each candidate to the user as authored-by, skipping
// duplicates and cross-author collisions, and persisting only what is new.
// It returns the resolved books in candidate order, excluding skipped ones.
//
// The whole call fails on the first invalid candidate without applying any
// of it. A nil or empty candidate list returns an empty result without
// touching the store or the caches. The user is saved once at the end,
// capturing all new authorship links, and only when at least one candidate
// resolved.
func (m *Merger) AttachBooks(ctx context.Context, userID entity.ID, candidates []BookCandidate) ([]*entity.Book, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	// Fail fast on malformed input before any store traffic.
	for _, candidate := range candidates {
		if err := candidate.validate(); err != nil {
			return nil, errors.Wrap(err, "Merger", "AttachBooks", "candidate validation")
		}
	}

	user, err := m.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	// FindByID can return the cached value itself. Accumulate links on a
	// private copy so a failed final save leaves the cache untouched; the
	// write-through on Save publishes the persisted state.
	user = user.Clone()

	// Natural keys of everything the user already authored, extended as the
	// batch adds books.
	seen := make(map[entity.NaturalKey]struct{}, len(user.BookIDs)+len(candidates))
	for _, bookID := range user.BookIDs {
		book, err := m.books.FindByID(ctx, bookID)
		if err != nil {
			return nil, errors.Wrap(err, "Merger", "AttachBooks", "authored book lookup")
		}
		seen[book.NaturalKey()] = struct{}{}
	}

	added := make([]*entity.Book, 0, len(candidates))

	for _, candidate := range candidates {
		res, err := m.classify(ctx, user, candidate, seen)
		if err != nil {
			return nil, err
		}
		m.countOutcome(res.kind)

		switch res.kind {
		case resolutionDuplicate:
			m.logger.Debug("skipping duplicate candidate",
				"user_id", userID, "title", candidate.Title)
			continue

		case resolutionConflict:
			m.logger.Warn("skipping candidate held by different authors",
				"user_id", userID, "title", candidate.Title)
			continue
		}

		book := res.book
		if res.kind == resolutionCreate {
			book.AddAuthor(userID)
			book, err = m.books.Save(ctx, book)
			if err != nil {
				return nil, err
			}
		}

		user.AddBook(book.ID)
		seen[book.NaturalKey()] = struct{}{}
		added = append(added, book)
	}

	// Nothing resolved means nothing to persist.
	if len(added) == 0 {
		return added, nil
	}

	if _, err := m.users.Save(ctx, user); err != nil {
		return nil, err
	}

	m.logger.Info("bulk merge completed",
		"user_id", userID,
		"candidates", len(candidates),
		"attached", len(added))

	return added, nil
}

// classify decides what to do with one candidate: skip it as a duplicate,
// skip it as a cross-author conflict, reuse a stored row, or create a new
// one. It performs no writes.
func (m *Merger) classify(ctx context.Context, user *entity.User, candidate BookCandidate, seen map[entity.NaturalKey]struct{}) (resolution, error) {
	key := candidate.naturalKey()

	if _, dup := seen[key]; dup {
		return resolution{kind: resolutionDuplicate}, nil
	}

	stored, err := m.bookStore.FindByNaturalKey(ctx, key)
	switch {
	case errors.IsNotFound(err):
		return resolution{kind: resolutionCreate, book: candidate.toBook()}, nil
	case err != nil:
		return resolution{}, errors.Wrap(err, "Merger", "classify", "natural key lookup")
	}

	if !stored.HasAuthor(user.ID) {
		return resolution{kind: resolutionConflict}, nil
	}

	return resolution{kind: resolutionReuse, book: stored}, nil
}

// countOutcome records the classification outcome if metrics are enabled.
func (m *Merger) countOutcome(kind resolutionKind) {
	if m.outcomes != nil {
		m.outcomes.WithLabelValues(kind.String()).Inc()
	}
}
