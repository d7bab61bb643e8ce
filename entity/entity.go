// Package entity defines the catalog domain model: books, users, comments,
// and the natural key used to detect duplicate book records.
//
// Identifiers are opaque int64 keys assigned by the store on first save and
// never reused. The zero identifier marks an entity that has not been
// persisted yet. Relationships are held as identifier sets/lists rather than
// object references so that entities stay value-copyable and safe to cache.
package entity

import (
	"slices"
	"strings"
	"time"
)

// ID is a store-assigned identifier, unique per entity kind.
type ID = int64

// Identifiable is satisfied by every persisted entity kind.
type Identifiable interface {
	EntityID() ID
}

// NaturalKey identifies a book independently of its store identifier.
// Two books with equal natural keys are considered the same work.
type NaturalKey struct {
	Title           string `json:"title"`
	ChapterCount    int    `json:"chapter_count"`
	PublicationYear int    `json:"publication_year"`
	Status          Status `json:"status"`
}

// Book is a catalog entry. AuthorIDs is the owning side of the
// book/user many-to-many authorship relation; CommentIDs is ordered
// by creation.
type Book struct {
	ID              ID     `json:"id"`
	Title           string `json:"title"`
	ChapterCount    int    `json:"chapter_count"`
	PublicationYear int    `json:"publication_year"`
	Status          Status `json:"status"`
	AuthorIDs       []ID   `json:"author_ids"`
	CommentIDs      []ID   `json:"comment_ids"`
}

// EntityID returns the book's store-assigned identifier.
func (b *Book) EntityID() ID { return b.ID }

// NaturalKey returns the duplicate-detection key for the book.
// The title is trimmed so that formatting noise does not defeat matching.
func (b *Book) NaturalKey() NaturalKey {
	return NaturalKey{
		Title:           strings.TrimSpace(b.Title),
		ChapterCount:    b.ChapterCount,
		PublicationYear: b.PublicationYear,
		Status:          b.Status,
	}
}

// HasAuthor reports whether the user is in the book's author set.
func (b *Book) HasAuthor(userID ID) bool {
	return slices.Contains(b.AuthorIDs, userID)
}

// AddAuthor adds the user to the book's author set. Idempotent.
func (b *Book) AddAuthor(userID ID) {
	if !b.HasAuthor(userID) {
		b.AuthorIDs = append(b.AuthorIDs, userID)
	}
}

// RemoveAuthor removes the user from the book's author set. No-op if absent.
func (b *Book) RemoveAuthor(userID ID) {
	b.AuthorIDs = slices.DeleteFunc(b.AuthorIDs, func(id ID) bool {
		return id == userID
	})
}

// Clone returns a deep copy of the book.
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	clone := *b
	clone.AuthorIDs = slices.Clone(b.AuthorIDs)
	clone.CommentIDs = slices.Clone(b.CommentIDs)
	return &clone
}

// User is a catalog account. BookIDs is the inverse side of the
// authorship relation; CommentIDs is ordered by creation.
type User struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"-"`
	BookIDs    []ID   `json:"book_ids"`
	CommentIDs []ID   `json:"comment_ids"`
}

// EntityID returns the user's store-assigned identifier.
func (u *User) EntityID() ID { return u.ID }

// HasBook reports whether the book is in the user's authored set.
func (u *User) HasBook(bookID ID) bool {
	return slices.Contains(u.BookIDs, bookID)
}

// AddBook adds the book to the user's authored set. Idempotent.
func (u *User) AddBook(bookID ID) {
	if !u.HasBook(bookID) {
		u.BookIDs = append(u.BookIDs, bookID)
	}
}

// RemoveBook removes the book from the user's authored set. No-op if absent.
func (u *User) RemoveBook(bookID ID) {
	u.BookIDs = slices.DeleteFunc(u.BookIDs, func(id ID) bool {
		return id == bookID
	})
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.BookIDs = slices.Clone(u.BookIDs)
	clone.CommentIDs = slices.Clone(u.CommentIDs)
	return &clone
}

// Comment is a user remark on a book.
type Comment struct {
	ID        ID        `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	BookID    ID        `json:"book_id"`
	UserID    ID        `json:"user_id"`
}

// EntityID returns the comment's store-assigned identifier.
func (c *Comment) EntityID() ID { return c.ID }

// Clone returns a copy of the comment.
func (c *Comment) Clone() *Comment {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
