package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/article/cachekey"
	"blog-backend/internal/domains/article/model"
	"blog-backend/internal/domains/article/service"
)

// fakeCache is an in-memory cache.Cache that round-trips values through JSON,
// matching what the Redis implementation does on the wire.
type fakeCache struct {
	store   map[string][]byte
	deletes []string
	ops     *[]string

	getErr error
	setErr error
}

func newFakeCache(ops *[]string) *fakeCache {
	return &fakeCache{store: map[string][]byte{}, ops: ops}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	data, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.store[key] = data
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.store, key)
		c.deletes = append(c.deletes, key)
		*c.ops = append(*c.ops, "cache.delete "+key)
	}
	return nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }

// listKeys decodes the registry entry, or returns nil when absent.
func (c *fakeCache) listKeys(t *testing.T) []string {
	t.Helper()
	data, ok := c.store[cachekey.Registry.String()]
	if !ok {
		return nil
	}
	var keys []string
	require.NoError(t, json.Unmarshal(data, &keys))
	return keys
}

// fakeRepo is an in-memory ArticleRepository.
type fakeRepo struct {
	articles map[int64]*model.Article
	authors  map[int64]model.Author
	nextID   int64

	queryCalls int
	getCalls   int
	lastQuery  model.ListQuery
	ops        *[]string
}

func newFakeRepo(ops *[]string) *fakeRepo {
	return &fakeRepo{
		articles: map[int64]*model.Article{},
		authors: map[int64]model.Author{
			1: {ID: 1, FirstName: "Ada", LastName: "Lovelace"},
			2: {ID: 2, FirstName: "Alan", LastName: "Turing"},
		},
		nextID: 1,
		ops:    ops,
	}
}

func (r *fakeRepo) Insert(_ context.Context, article *model.Article) (*model.Article, error) {
	author, ok := r.authors[article.Author.ID]
	if !ok {
		return nil, fmt.Errorf("unknown author %d", article.Author.ID)
	}

	article.ID = r.nextID
	r.nextID++
	article.UpdatedAt = time.Now()
	article.Author = author

	stored := *article
	r.articles[article.ID] = &stored
	*r.ops = append(*r.ops, fmt.Sprintf("repo.insert %d", article.ID))
	return article, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*model.Article, error) {
	r.getCalls++
	stored, ok := r.articles[id]
	if !ok {
		return nil, model.ErrArticleNotFound
	}
	a := *stored
	return &a, nil
}

func (r *fakeRepo) UpdateByID(_ context.Context, id int64, patch model.UpdateArticleRequest) (int64, error) {
	stored, ok := r.articles[id]
	if !ok {
		return 0, nil
	}
	if patch.Title != nil {
		stored.Title = *patch.Title
	}
	if patch.Description != nil {
		stored.Description = *patch.Description
	}
	if publishedAt, ok, err := patch.PublishedAtTime(); err != nil {
		return 0, err
	} else if ok {
		stored.PublishedAt = publishedAt
	}
	stored.UpdatedAt = time.Now()
	return 1, nil
}

func (r *fakeRepo) DeleteByID(_ context.Context, id int64) (int64, error) {
	if _, ok := r.articles[id]; !ok {
		return 0, nil
	}
	delete(r.articles, id)
	return 1, nil
}

func (r *fakeRepo) Query(_ context.Context, q model.ListQuery) ([]model.Article, int64, error) {
	r.queryCalls++
	r.lastQuery = q

	matched := []model.Article{}
	for _, a := range r.articles {
		if q.AuthorID > 0 && a.Author.ID != q.AuthorID {
			continue
		}
		if after, ok := q.PublishedAfterTime(); ok && a.PublishedAt.Before(after) {
			continue
		}
		matched = append(matched, *a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if q.Skip < len(matched) {
		matched = matched[q.Skip:]
	} else {
		matched = []model.Article{}
	}
	if q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, total, nil
}

func newService(t *testing.T) (service.Service, *fakeRepo, *fakeCache) {
	t.Helper()
	ops := &[]string{}
	repo := newFakeRepo(ops)
	c := newFakeCache(ops)
	svc := service.NewArticleService(repo, c, config.CacheConfig{
		ArticleTTL:  10 * time.Second,
		RegistryTTL: time.Hour,
	})
	return svc, repo, c
}

func createArticle(t *testing.T, svc service.Service, authorID int64) *model.Article {
	t.Helper()
	created, err := svc.Create(context.Background(), model.CreateArticleRequest{
		Title:       "Valid Title",
		Description: "a description of at least twenty characters",
		PublishedAt: "2024-11-01",
	}, authorID)
	require.NoError(t, err)
	return created
}

func strPtr(s string) *string { return &s }

func TestFindOne_CacheAside(t *testing.T) {
	svc, repo, _ := newService(t)
	created := createArticle(t, svc, 1)

	first, err := svc.FindOne(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCalls)

	// Second read within the TTL window is served from cache.
	second, err := svc.FindOne(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCalls, "second read must not hit storage")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Title, second.Title)
}

func TestFindOne_NotFound(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.FindOne(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrArticleNotFound))
	assert.Equal(t, "Article with ID 999 not found.", err.Error())
}

func TestUpdate_InvalidatesSingleArticleCache(t *testing.T) {
	svc, repo, _ := newService(t)
	created := createArticle(t, svc, 1)

	_, err := svc.FindOne(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, 1, repo.getCalls)

	updated, err := svc.Update(context.Background(), created.ID, model.UpdateArticleRequest{
		Title: strPtr("New Title"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)

	// Update re-reads through FindOne, which repopulates the cache.
	require.Equal(t, 2, repo.getCalls)

	got, err := svc.FindOne(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Title", got.Title)
	assert.Equal(t, 2, repo.getCalls, "read after update must come from the refreshed cache")
}

func TestRemove_InvalidatesSingleArticleCache(t *testing.T) {
	svc, repo, _ := newService(t)
	created := createArticle(t, svc, 1)

	_, err := svc.FindOne(context.Background(), created.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), created.ID))

	_, err = svc.FindOne(context.Background(), created.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrArticleNotFound))
	assert.Equal(t, 2, repo.getCalls, "read after remove must go back to storage")
}

func TestFindAll_Defaults(t *testing.T) {
	svc, repo, c := newService(t)
	createArticle(t, svc, 1)

	page, err := svc.FindAll(context.Background(), model.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	assert.Equal(t, model.DefaultLimit, repo.lastQuery.Limit)
	assert.Equal(t, model.DefaultSkip, repo.lastQuery.Skip)
	assert.Equal(t, model.SortByPublishedAt, repo.lastQuery.SortBy)
	assert.Equal(t, model.SortDesc, repo.lastQuery.SortOrder)

	// Defaults also pin down the cache key of the bare query.
	_, ok := c.store["articles-publishedAt:DESC:10:0::"]
	assert.True(t, ok, "default query must be cached under the canonical key")
}

func TestFindAll_CachedPageSkipsStorage(t *testing.T) {
	svc, repo, _ := newService(t)
	createArticle(t, svc, 1)

	_, err := svc.FindAll(context.Background(), model.ListQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, repo.queryCalls)

	page, err := svc.FindAll(context.Background(), model.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.queryCalls, "cached page must be served without a storage query")
	assert.Equal(t, int64(1), page.Total)
}

// Any write sweeps every previously cached list page, whatever its parameters.
func TestWrites_InvalidateAllListPages(t *testing.T) {
	queries := []model.ListQuery{
		{},
		{Limit: 5, Skip: 5},
		{AuthorID: 1},
		{SortBy: model.SortByTitle, SortOrder: model.SortAsc},
		{PublishedAfter: "2024-01-01"},
	}

	writes := []struct {
		name string
		do   func(t *testing.T, svc service.Service, id int64)
	}{
		{"create", func(t *testing.T, svc service.Service, _ int64) {
			createArticle(t, svc, 2)
		}},
		{"update", func(t *testing.T, svc service.Service, id int64) {
			_, err := svc.Update(context.Background(), id, model.UpdateArticleRequest{Title: strPtr("Fresh Title")})
			require.NoError(t, err)
		}},
		{"remove", func(t *testing.T, svc service.Service, id int64) {
			require.NoError(t, svc.Remove(context.Background(), id))
		}},
	}

	for _, write := range writes {
		t.Run(write.name, func(t *testing.T) {
			svc, repo, c := newService(t)
			created := createArticle(t, svc, 1)

			for _, q := range queries {
				_, err := svc.FindAll(context.Background(), q)
				require.NoError(t, err)
			}
			require.Equal(t, len(queries), repo.queryCalls)
			require.Len(t, c.listKeys(t), len(queries))

			write.do(t, svc, created.ID)

			assert.Nil(t, c.listKeys(t), "registry must be cleared by the sweep")
			for _, q := range queries {
				_, err := svc.FindAll(context.Background(), q)
				require.NoError(t, err)
			}
			assert.Equal(t, 2*len(queries), repo.queryCalls,
				"every page must miss and re-query after the sweep")
		})
	}
}

func TestRegistry_RegistrationIsIdempotent(t *testing.T) {
	svc, _, c := newService(t)
	createArticle(t, svc, 1)

	_, err := svc.FindAll(context.Background(), model.ListQuery{})
	require.NoError(t, err)

	// Drop the cached page but keep the registry, forcing a second miss that
	// re-registers the same key.
	key := cachekey.ForList(model.ListQuery{}.WithDefaults()).String()
	delete(c.store, key)

	_, err = svc.FindAll(context.Background(), model.ListQuery{})
	require.NoError(t, err)

	keys := c.listKeys(t)
	require.Len(t, keys, 1, "re-registering a key must not duplicate it")
	assert.Equal(t, key, keys[0])
}

func TestUpdate_NotFoundLeavesCacheUntouched(t *testing.T) {
	svc, _, c := newService(t)

	_, err := svc.Update(context.Background(), 999, model.UpdateArticleRequest{Title: strPtr("New Title")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrArticleNotFound))
	assert.Equal(t, "Article with id 999 not found", err.Error())
	assert.Empty(t, c.deletes, "a failed update must not touch the cache")
}

func TestRemove_NotFoundStillCleansCache(t *testing.T) {
	svc, _, c := newService(t)

	err := svc.Remove(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrArticleNotFound))
	assert.Equal(t, "Article with id 999 not found", err.Error())

	// The cleanup calls run before the failure is raised.
	assert.Contains(t, c.deletes, cachekey.ForArticle(999).String())
	assert.Contains(t, c.deletes, cachekey.Registry.String())
}

func TestCreate_SweepsBeforeInsert(t *testing.T) {
	ops := &[]string{}
	repo := newFakeRepo(ops)
	c := newFakeCache(ops)
	svc := service.NewArticleService(repo, c, config.CacheConfig{
		ArticleTTL:  10 * time.Second,
		RegistryTTL: time.Hour,
	})

	createArticle(t, svc, 1)
	_, err := svc.FindAll(context.Background(), model.ListQuery{})
	require.NoError(t, err)

	*ops = (*ops)[:0]
	createArticle(t, svc, 1)

	require.NotEmpty(t, *ops)
	assert.Equal(t, "repo.insert 2", (*ops)[len(*ops)-1],
		"the insert must come after the cache sweep")
}

func TestCacheFailurePropagates(t *testing.T) {
	svc, _, c := newService(t)
	created := createArticle(t, svc, 1)

	c.getErr = errors.New("connection refused")

	_, err := svc.FindOne(context.Background(), created.ID)
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection refused")

	_, err = svc.FindAll(context.Background(), model.ListQuery{})
	require.Error(t, err)
}

func TestEndToEndScenario(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, model.CreateArticleRequest{
		Title:       "Valid Title",
		Description: "a description of at least twenty characters",
		PublishedAt: "2024-11-01",
	}, 1)
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, int64(1), created.Author.ID)
	assert.Equal(t, "Ada", created.Author.FirstName)

	// Second read is a cache hit.
	_, err = svc.FindOne(ctx, created.ID)
	require.NoError(t, err)
	_, err = svc.FindOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCalls)

	updated, err := svc.Update(ctx, created.ID, model.UpdateArticleRequest{Title: strPtr("New Title")})
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)

	got, err := svc.FindOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Title", got.Title)

	require.NoError(t, svc.Remove(ctx, created.ID))

	_, err = svc.FindOne(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrArticleNotFound))
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	svc, _, _ := newService(t)

	tests := []struct {
		name string
		req  model.CreateArticleRequest
	}{
		{"short title", model.CreateArticleRequest{
			Title: "Hi", Description: "a description of at least twenty characters", PublishedAt: "2024-11-01",
		}},
		{"short description", model.CreateArticleRequest{
			Title: "Valid Title", Description: "too short", PublishedAt: "2024-11-01",
		}},
		{"bad date", model.CreateArticleRequest{
			Title: "Valid Title", Description: "a description of at least twenty characters", PublishedAt: "yesterday",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req, 1)
			assert.Error(t, err)
		})
	}
}

func TestUpdate_RejectsEmptyPatch(t *testing.T) {
	svc, _, _ := newService(t)
	created := createArticle(t, svc, 1)

	_, err := svc.Update(context.Background(), created.ID, model.UpdateArticleRequest{})
	assert.Error(t, err)
}
