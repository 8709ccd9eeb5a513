package service

import (
	"context"
	"errors"
	"time"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/article/cachekey"
	"blog-backend/internal/domains/article/model"
	"blog-backend/internal/domains/article/repository"
	"blog-backend/pkg/cache"
)

type articleService struct {
	repo  repository.ArticleRepository
	cache cache.Cache

	articleTTL  time.Duration
	registryTTL time.Duration
}

// NewArticleService builds the article Service with its collaborators injected.
func NewArticleService(repo repository.ArticleRepository, c cache.Cache, cfg config.CacheConfig) Service {
	return &articleService{
		repo:        repo,
		cache:       c,
		articleTTL:  cfg.ArticleTTL,
		registryTTL: cfg.RegistryTTL,
	}
}

func (s *articleService) Create(ctx context.Context, req model.CreateArticleRequest, authorID int64) (*model.Article, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	publishedAt, err := req.PublishedAtTime()
	if err != nil {
		return nil, err
	}

	// Any cached page may contain the new article once persisted, so every
	// list entry is swept before the insert. No single-article entry is
	// written here; the first read fills it.
	if err := s.invalidateListCaches(ctx); err != nil {
		return nil, err
	}

	article := &model.Article{
		Title:       req.Title,
		Description: req.Description,
		PublishedAt: publishedAt,
		Author:      model.Author{ID: authorID},
	}

	return s.repo.Insert(ctx, article)
}

func (s *articleService) FindAll(ctx context.Context, q model.ListQuery) (*model.PaginatedArticles, error) {
	q = q.WithDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	key := cachekey.ForList(q).String()

	var cached model.PaginatedArticles
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		// The cached page is served verbatim; staleness is bounded by the
		// TTL and by the write-path sweeps.
		return &cached, nil
	}

	articles, total, err := s.repo.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	result := &model.PaginatedArticles{Data: articles, Total: total}

	if err := s.cache.Set(ctx, key, result, s.articleTTL); err != nil {
		return nil, err
	}
	if err := s.registerListKey(ctx, key); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *articleService) FindOne(ctx context.Context, id int64) (*model.Article, error) {
	key := cachekey.ForArticle(id).String()

	var cached model.Article
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		return &cached, nil
	}

	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrArticleNotFound) {
			return nil, model.NotFoundByID(id)
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, key, article, s.articleTTL); err != nil {
		return nil, err
	}

	return article, nil
}

func (s *articleService) Update(ctx context.Context, id int64, patch model.UpdateArticleRequest) (*model.Article, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	affected, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Nothing changed in storage, so the cache must not be touched.
		return nil, model.NotFoundOnMutation(id)
	}

	if err := s.cache.Delete(ctx, cachekey.ForArticle(id).String()); err != nil {
		return nil, err
	}
	if err := s.invalidateListCaches(ctx); err != nil {
		return nil, err
	}

	// Re-read through FindOne so the single-article entry is repopulated.
	return s.FindOne(ctx, id)
}

func (s *articleService) Remove(ctx context.Context, id int64) error {
	affected, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}

	// Cache cleanup runs unconditionally; the not-found failure for an absent
	// id is raised only afterwards, so stale entries are dropped either way.
	if err := s.cache.Delete(ctx, cachekey.ForArticle(id).String()); err != nil {
		return err
	}
	if err := s.invalidateListCaches(ctx); err != nil {
		return err
	}

	if affected == 0 {
		return model.NotFoundOnMutation(id)
	}
	return nil
}
