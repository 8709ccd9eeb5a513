package model

import (
	"time"
)

// Author is the denormalized owner reference carried by every Article DTO.
// Only the public naming fields are exposed, never the credentials.
type Author struct {
	ID        int64  `json:"id" db:"author_id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
}

// Article is the domain entity. An article always belongs to exactly one
// author; referential enforcement lives in the database.
type Article struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	PublishedAt time.Time `json:"publishedAt" db:"published_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
	Author      Author    `json:"author"`
}

// PaginatedArticles is the shape cached and returned by list queries.
type PaginatedArticles struct {
	Data  []Article `json:"data"`
	Total int64     `json:"total"`
}
