package service

import (
	"context"

	"blog-backend/internal/domains/article/model"
)

// Service is the article read/write orchestration layer: cache-aside reads,
// cache-invalidating writes.
type Service interface {
	// Create persists a new article owned by the authenticated caller.
	// All cached list pages are invalidated before the insert.
	Create(ctx context.Context, req model.CreateArticleRequest, authorID int64) (*model.Article, error)

	// FindAll serves one paginated page, cache-aside. A fresh page is cached
	// and its key registered for later bulk invalidation.
	FindAll(ctx context.Context, q model.ListQuery) (*model.PaginatedArticles, error)

	// FindOne serves a single article, cache-aside.
	// Errors: model.ErrArticleNotFound when the id is absent.
	FindOne(ctx context.Context, id int64) (*model.Article, error)

	// Update applies a partial update, drops the article's cache entry,
	// sweeps the list caches and returns the re-read article.
	// Errors: model.ErrArticleNotFound when no row was affected; the cache is
	// left untouched in that case.
	Update(ctx context.Context, id int64, patch model.UpdateArticleRequest) (*model.Article, error)

	// Remove deletes the article. Cache cleanup runs even when the id turns
	// out not to exist; the NotFound error is raised afterwards.
	Remove(ctx context.Context, id int64) error
}
