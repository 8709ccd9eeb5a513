package service

import (
	"context"

	"blog-backend/internal/domains/article/cachekey"
	"blog-backend/pkg/logger"
)

// The registry is a plain read-modify-write over one cache entry, with no
// compare-and-swap. Two concurrent registrations can race and one can be
// lost; the orphaned page then simply expires via its own TTL instead of
// being swept, which keeps staleness bounded either way.

// registerListKey records a list-query key in the persisted registry so a
// later sweep can find every cached page without scanning the keyspace.
// Registering the same key twice is a no-op.
func (s *articleService) registerListKey(ctx context.Context, key string) error {
	keys := []string{}
	if _, err := s.cache.Get(ctx, cachekey.Registry.String(), &keys); err != nil {
		return err
	}

	for _, k := range keys {
		if k == key {
			return nil
		}
	}

	keys = append(keys, key)
	return s.cache.Set(ctx, cachekey.Registry.String(), keys, s.registryTTL)
}

// invalidateListCaches deletes every registered list page, then the registry
// entry itself. This is deliberately coarse: any article write drops all
// cached pages rather than working out which filters it could affect.
// Individual delete failures are logged and left to TTL expiry.
func (s *articleService) invalidateListCaches(ctx context.Context) error {
	var keys []string
	found, err := s.cache.Get(ctx, cachekey.Registry.String(), &keys)
	if err != nil {
		return err
	}

	if found {
		for _, key := range keys {
			if err := s.cache.Delete(ctx, key); err != nil {
				logger.Warn("failed to drop cached article list "+key, err)
			}
		}
	}

	return s.cache.Delete(ctx, cachekey.Registry.String())
}
