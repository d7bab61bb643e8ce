package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/c360/bookcatalog/entity"
	"github.com/c360/bookcatalog/errors"
)

// Memory is an in-memory implementation of the store contracts, used by tests
// and local deployments. All three entity kinds live behind one mutex so that
// cross-kind cascades stay atomic:
//
//   - deleting a user deletes the user's comments, detaches the user from
//     authored books, and deletes books left without authors
//   - deleting a book deletes its comments and detaches it from its authors
//
// Entities are deep-copied on the way in and out, so callers can never mutate
// stored state through a returned pointer.
type Memory struct {
	mu       sync.RWMutex
	books    map[entity.ID]*entity.Book
	users    map[entity.ID]*entity.User
	comments map[entity.ID]*entity.Comment

	nextBookID    entity.ID
	nextUserID    entity.ID
	nextCommentID entity.ID
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		books:    make(map[entity.ID]*entity.Book),
		users:    make(map[entity.ID]*entity.User),
		comments: make(map[entity.ID]*entity.Comment),
	}
}

// Books returns the book view of the store.
func (m *Memory) Books() BookStore { return &bookView{m} }

// Users returns the user view of the store.
func (m *Memory) Users() UserStore { return &userView{m} }

// Comments returns the comment view of the store.
func (m *Memory) Comments() CommentStore { return &commentView{m} }

// bookView implements BookStore over the shared Memory state.
type bookView struct {
	m *Memory
}

func (v *bookView) FindByID(_ context.Context, id entity.ID) (*entity.Book, error) {
	v.m.mu.RLock()
	defer v.m.mu.RUnlock()

	book, exists := v.m.books[id]
	if !exists {
		return nil, errors.WrapNotFound(errors.ErrNotFound, "BookStore", "FindByID",
			fmt.Sprintf("book %d", id))
	}
	return book.Clone(), nil
}

func (v *bookView) Save(_ context.Context, book *entity.Book) (*entity.Book, error) {
	if book == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "BookStore", "Save", "nil book")
	}

	v.m.mu.Lock()
	defer v.m.mu.Unlock()

	stored := book.Clone()
	if stored.ID == 0 {
		v.m.nextBookID++
		stored.ID = v.m.nextBookID
	}
	v.m.books[stored.ID] = stored

	return stored.Clone(), nil
}

func (v *bookView) Delete(_ context.Context, id entity.ID) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()

	v.m.deleteBookLocked(id)
	return nil
}

func (v *bookView) ExistsByID(_ context.Context, id entity.ID) (bool, error) {
	v.m.mu.RLock()
	defer v.m.mu.RUnlock()

	_, exists := v.m.books[id]
	return exists, nil
}

func (v *bookView) FindByNaturalKey(_ context.Context, key entity.NaturalKey) (*entity.Book, error) {
	v.m.mu.RLock()
	defer v.m.mu.RUnlock()

	for _, book := range v.m.books {
		if book.NaturalKey() == key {
			return book.Clone(), nil
		}
	}
	return nil, errors.WrapNotFound(errors.ErrNotFound, "BookStore", "FindByNaturalKey",
		fmt.Sprintf("book %q (%d chapters, %d, %s)", key.Title, key.ChapterCount, key.PublicationYear, key.Status))
}

// userView implements UserStore over the shared Memory state.
type userView struct {
	m *Memory
}

func (v *userView) FindByID(_ context.Context, id entity.ID) (*entity.User, error) {
	v.m.mu.RLock()
	defer v.m.mu.RUnlock()

	user, exists := v.m.users[id]
	if !exists {
		return nil, errors.WrapNotFound(errors.ErrNotFound, "UserStore", "FindByID",
			fmt.Sprintf("user %d", id))
	}
	return user.Clone(), nil
}

func (v *userView) Save(_ context.Context, user *entity.User) (*entity.User, error) {
	if user == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "UserStore", "Save", "nil user")
	}

	v.m.mu.Lock()
	defer v.m.mu.Unlock()

	stored := user.Clone()
	if stored.ID == 0 {
		v.m.nextUserID++
		stored.ID = v.m.nextUserID
	}
	v.m.users[stored.ID] = stored

	return stored.Clone(), nil
}

func (v *userView) Delete(_ context.Context, id entity.ID) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()

	user, exists := v.m.users[id]
	if !exists {
		return nil
	}

	// Cascade: the user's comments go first. Iterate over copies because the
	// cascade helpers compact these slices in place.
	for _, commentID := range slices.Clone(user.CommentIDs) {
		v.m.deleteCommentLocked(commentID)
	}

	// Detach from authored books; orphaned books are deleted entirely.
	for _, bookID := range slices.Clone(user.BookIDs) {
		book, ok := v.m.books[bookID]
		if !ok {
			continue
		}
		book.RemoveAuthor(id)
		if len(book.AuthorIDs) == 0 {
			v.m.deleteBookLocked(bookID)
		}
	}

	delete(v.m.users, id)
	return nil
}

func (v *userView) ExistsByID(_ context.Context, id entity.ID) (bool, error) {
	v.m.mu.RLock()
	defer v.m.mu.RUnlock()

	_, exists := v.m.users[id]
	return exists, nil
}

// commentView implements CommentStore over the shared Memory state.
type commentView struct {
	m *Memory
}

func (v *commentView) FindByID(_ context.Context, id entity.ID) (*entity.Comment, error) {
	v.m.mu.RLock()
	defer v.m.mu.RUnlock()

	comment, exists := v.m.comments[id]
	if !exists {
		return nil, errors.WrapNotFound(errors.ErrNotFound, "CommentStore", "FindByID",
			fmt.Sprintf("comment %d", id))
	}
	return comment.Clone(), nil
}

func (v *commentView) Save(_ context.Context, comment *entity.Comment) (*entity.Comment, error) {
	if comment == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "CommentStore", "Save", "nil comment")
	}

	v.m.mu.Lock()
	defer v.m.mu.Unlock()

	stored := comment.Clone()
	if stored.ID == 0 {
		v.m.nextCommentID++
		stored.ID = v.m.nextCommentID
	}
	v.m.comments[stored.ID] = stored

	// Keep the owning sides consistent.
	if book, ok := v.m.books[stored.BookID]; ok {
		if !slices.Contains(book.CommentIDs, stored.ID) {
			book.CommentIDs = append(book.CommentIDs, stored.ID)
		}
	}
	if user, ok := v.m.users[stored.UserID]; ok {
		if !slices.Contains(user.CommentIDs, stored.ID) {
			user.CommentIDs = append(user.CommentIDs, stored.ID)
		}
	}

	return stored.Clone(), nil
}

func (v *commentView) Delete(_ context.Context, id entity.ID) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()

	v.m.deleteCommentLocked(id)
	return nil
}

func (v *commentView) ExistsByID(_ context.Context, id entity.ID) (bool, error) {
	v.m.mu.RLock()
	defer v.m.mu.RUnlock()

	_, exists := v.m.comments[id]
	return exists, nil
}

// deleteBookLocked removes a book, its comments, and its authorship links.
// Caller must hold the write lock.
func (m *Memory) deleteBookLocked(id entity.ID) {
	book, exists := m.books[id]
	if !exists {
		return
	}

	for _, commentID := range book.CommentIDs {
		comment, ok := m.comments[commentID]
		if !ok {
			continue
		}
		if user, ok := m.users[comment.UserID]; ok {
			user.CommentIDs = removeID(user.CommentIDs, commentID)
		}
		delete(m.comments, commentID)
	}

	for _, authorID := range book.AuthorIDs {
		if user, ok := m.users[authorID]; ok {
			user.RemoveBook(id)
		}
	}

	delete(m.books, id)
}

// deleteCommentLocked removes a comment and its back-references.
// Caller must hold the write lock.
func (m *Memory) deleteCommentLocked(id entity.ID) {
	comment, exists := m.comments[id]
	if !exists {
		return
	}

	if book, ok := m.books[comment.BookID]; ok {
		book.CommentIDs = removeID(book.CommentIDs, id)
	}
	if user, ok := m.users[comment.UserID]; ok {
		user.CommentIDs = removeID(user.CommentIDs, id)
	}

	delete(m.comments, id)
}

func removeID(ids []entity.ID, id entity.ID) []entity.ID {
	result := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			result = append(result, candidate)
		}
	}
	return result
}
