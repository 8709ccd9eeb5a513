// Package cachekey builds the cache keys of the article domain.
//
// Each cache domain gets its own tagged key type so a single-article key can
// never be passed where a list key belongs. Key layouts are part of the
// persisted contract: changing one orphans the entries already in Redis.
package cachekey

import (
	"fmt"
	"strconv"

	"blog-backend/internal/domains/article/model"
)

// ArticleKey addresses the cached DTO of one article.
type ArticleKey string

// ListKey addresses one cached page of a list query.
type ListKey string

// RegistryKey addresses the persisted set of live list keys.
type RegistryKey string

// Registry is the single registry entry for article list keys.
const Registry RegistryKey = "cache:articles:keys"

func (k ArticleKey) String() string  { return string(k) }
func (k ListKey) String() string     { return string(k) }
func (k RegistryKey) String() string { return string(k) }

// ForArticle returns the key of a single article entry, e.g. "article-42".
func ForArticle(id int64) ArticleKey {
	return ArticleKey(fmt.Sprintf("article-%d", id))
}

// ForList derives the deterministic key of a list query:
//
//	articles-{sortBy}:{sortOrder}:{limit}:{skip}:{authorId}:{publishedAfter}
//
// Optional parameters collapse to the empty string so that two queries are
// cache-equal exactly when their effective parameters are equal. Callers must
// apply defaults first; otherwise an explicit limit=10 and an omitted limit
// would produce distinct keys for the same page.
func ForList(q model.ListQuery) ListKey {
	authorID := ""
	if q.AuthorID > 0 {
		authorID = strconv.FormatInt(q.AuthorID, 10)
	}

	return ListKey(fmt.Sprintf("articles-%s:%s:%d:%d:%s:%s",
		q.SortBy,
		q.SortOrder,
		q.Limit,
		q.Skip,
		authorID,
		q.PublishedAfter,
	))
}
