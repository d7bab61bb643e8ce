package entity

import (
	"fmt"

	"github.com/c360/bookcatalog/errors"
)

// Status represents the publication lifecycle state of a book.
type Status string

const (
	// StatusAnnounced marks a book that has been announced but not released.
	StatusAnnounced Status = "announced"

	// StatusOngoing marks a book that is being released chapter by chapter.
	StatusOngoing Status = "ongoing"

	// StatusCompleted marks a fully released book.
	StatusCompleted Status = "completed"

	// StatusFrozen marks a book whose release has been suspended.
	StatusFrozen Status = "frozen"
)

// Valid reports whether the status is one of the recognized values.
func (s Status) Valid() bool {
	switch s {
	case StatusAnnounced, StatusOngoing, StatusCompleted, StatusFrozen:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string into a Status.
// Returns a classified invalid error for unrecognized values.
func ParseStatus(value string) (Status, error) {
	s := Status(value)
	if !s.Valid() {
		return "", errors.WrapInvalid(errors.ErrUnknownStatus, "entity", "ParseStatus",
			fmt.Sprintf("unrecognized status %q", value))
	}
	return s, nil
}
