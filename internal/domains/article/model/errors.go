package model

import (
	"errors"
	"fmt"
)

// ErrArticleNotFound is the sentinel the handler layer matches with errors.Is.
var ErrArticleNotFound = errors.New("article not found")

// NotFoundError carries the public message of the endpoint that raised it
// while still matching ErrArticleNotFound in errors.Is chains.
type NotFoundError struct {
	message string
}

func (e *NotFoundError) Error() string { return e.message }

func (e *NotFoundError) Is(target error) bool { return target == ErrArticleNotFound }

// NotFoundByID is raised by lookups for an absent article.
func NotFoundByID(id int64) error {
	return &NotFoundError{message: fmt.Sprintf("Article with ID %d not found.", id)}
}

// NotFoundOnMutation is raised when an update or delete affected no rows.
func NotFoundOnMutation(id int64) error {
	return &NotFoundError{message: fmt.Sprintf("Article with id %d not found", id)}
}
