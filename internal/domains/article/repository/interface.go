package repository

import (
	"context"

	"blog-backend/internal/domains/article/model"
)

// ArticleRepository defines data access for articles.
type ArticleRepository interface {
	// Insert persists a new article owned by article.Author.ID and returns it
	// with the generated id, timestamps and denormalized author fields.
	Insert(ctx context.Context, article *model.Article) (*model.Article, error)

	// GetByID loads one article joined with its author's public fields.
	// Errors: model.ErrArticleNotFound when the id is absent.
	GetByID(ctx context.Context, id int64) (*model.Article, error)

	// UpdateByID applies the non-nil fields of patch and returns the number
	// of affected rows (0 when the id is absent).
	UpdateByID(ctx context.Context, id int64, patch model.UpdateArticleRequest) (int64, error)

	// DeleteByID removes the row and returns the number of affected rows.
	DeleteByID(ctx context.Context, id int64) (int64, error)

	// Query returns one filtered, sorted, paginated page plus the total count
	// of rows matching the filters. The caller passes a query with defaults
	// already applied.
	Query(ctx context.Context, q model.ListQuery) ([]model.Article, int64, error)
}
