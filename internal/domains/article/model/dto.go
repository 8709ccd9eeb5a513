package model

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SortOrder is the direction of a list query.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// Sortable article fields, as accepted from the query string.
const (
	SortByTitle       = "title"
	SortByDescription = "description"
	SortByPublishedAt = "publishedAt"
	SortByCreatedAt   = "createdAt"
)

// Pagination defaults applied when the query string leaves them out.
const (
	DefaultLimit = 10
	DefaultSkip  = 0
)

// dateLayouts are the accepted formats for publishedAt and publishedAfter.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", value)
}

func validDate(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	_, err := parseDate(s)
	return err
}

// CreateArticleRequest is the payload for POST /articles.
// The author is never part of the payload; it comes from the verified caller.
type CreateArticleRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	PublishedAt string `json:"publishedAt" binding:"required"`
}

func (r CreateArticleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(5, 80),
		),
		validation.Field(&r.Description,
			validation.Required.Error("description is required"),
			validation.Length(20, 2000),
		),
		validation.Field(&r.PublishedAt,
			validation.Required.Error("publishedAt is required"),
			validation.By(validDate),
		),
	)
}

// PublishedAtTime parses the validated publish date.
func (r CreateArticleRequest) PublishedAtTime() (time.Time, error) {
	return parseDate(r.PublishedAt)
}

// UpdateArticleRequest is the partial payload for PATCH /articles/:id.
// Nil fields are left untouched.
type UpdateArticleRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PublishedAt *string `json:"publishedAt"`
}

func (r UpdateArticleRequest) Validate() error {
	if r.Title == nil && r.Description == nil && r.PublishedAt == nil {
		return validation.NewError("validation_empty_patch", "at least one field must be provided")
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(5, 80)),
		validation.Field(&r.Description, validation.Length(20, 2000)),
		validation.Field(&r.PublishedAt, validation.By(validDate)),
	)
}

// PublishedAtTime parses the publish date when the patch carries one.
func (r UpdateArticleRequest) PublishedAtTime() (time.Time, bool, error) {
	if r.PublishedAt == nil {
		return time.Time{}, false, nil
	}
	t, err := parseDate(*r.PublishedAt)
	return t, err == nil, err
}

// ListQuery holds the filter, sort and pagination parameters of GET /articles.
type ListQuery struct {
	Limit          int       `form:"limit"`
	Skip           int       `form:"skip"`
	SortBy         string    `form:"sortBy"`
	SortOrder      SortOrder `form:"sortOrder"`
	AuthorID       int64     `form:"authorId"`       // 0 means no filter
	PublishedAfter string    `form:"publishedAfter"` // inclusive lower bound, optional
}

// WithDefaults fills in the documented defaults for anything the caller omitted.
func (q ListQuery) WithDefaults() ListQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Skip < 0 {
		q.Skip = DefaultSkip
	}
	if q.SortBy == "" {
		q.SortBy = SortByPublishedAt
	}
	if q.SortOrder == "" {
		q.SortOrder = SortDesc
	}
	return q
}

func (q ListQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.SortBy,
			validation.In(SortByTitle, SortByDescription, SortByPublishedAt, SortByCreatedAt),
		),
		validation.Field(&q.SortOrder, validation.In(SortAsc, SortDesc)),
		validation.Field(&q.AuthorID, validation.Min(int64(0))),
		validation.Field(&q.PublishedAfter, validation.By(validDate)),
	)
}

// PublishedAfterTime parses the optional lower-bound filter.
func (q ListQuery) PublishedAfterTime() (time.Time, bool) {
	if q.PublishedAfter == "" {
		return time.Time{}, false
	}
	t, err := parseDate(q.PublishedAfter)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
