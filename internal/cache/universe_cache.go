// Package cache provides caching decorators for read-side collaborators.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/guttosm/breadthpulse/internal/domain/models"
	"github.com/guttosm/breadthpulse/internal/logger"
	"github.com/guttosm/breadthpulse/internal/universe"
)

const (
	defaultTTL       = 5 * time.Minute
	defaultNamespace = "universe"
)

type memoEntry struct {
	u       models.Universe
	expires time.Time
}

// CachingMemberSource decorates a universe.MemberSource with two cache tiers:
// an in-process memo and Redis. Lookups go memo → Redis → inner source.
//
// Redis is best effort: read and write failures are logged and the lookup
// falls through to the inner source. Universes without members are never
// cached, so a universe that appears upstream becomes visible on the next
// lookup.
type CachingMemberSource struct {
	inner     universe.MemberSource
	rdb       redis.Cmdable
	ttl       time.Duration
	namespace string

	mu   sync.RWMutex
	memo map[string]memoEntry
	now  func() time.Time
	log  zerolog.Logger
}

// NewCachingMemberSource decorates inner with caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "universe".
// A nil rdb disables the Redis tier; the memo stays active.
func NewCachingMemberSource(rdb redis.Cmdable, ttl time.Duration, inner universe.MemberSource, namespace string) *CachingMemberSource {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &CachingMemberSource{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		memo:      make(map[string]memoEntry),
		now:       time.Now,
		log:       logger.Component("universe_cache"),
	}
}

// Lookup implements universe.MemberSource.
func (c *CachingMemberSource) Lookup(ctx context.Context, key string) (models.Universe, error) {
	if u, ok := c.fromMemo(key); ok {
		return u, nil
	}

	rkey := c.cacheKey(key)
	if c.rdb != nil {
		if u, ok := c.fromRedis(ctx, rkey); ok {
			c.remember(key, u)
			return u, nil
		}
	}

	u, err := c.inner.Lookup(ctx, key)
	if err != nil {
		return models.Universe{}, err
	}
	if len(u.Members) == 0 {
		return u, nil
	}

	c.remember(key, u)
	if c.rdb != nil {
		if b, err := json.Marshal(u); err == nil {
			if err := c.rdb.Set(ctx, rkey, b, c.ttl).Err(); err != nil {
				c.log.Warn().Err(err).Str("key", rkey).Msg("universe cache write failed")
			}
		}
	}
	return u, nil
}

func (c *CachingMemberSource) fromMemo(key string) (models.Universe, bool) {
	c.mu.RLock()
	e, ok := c.memo[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expires) {
		return models.Universe{}, false
	}
	return e.u, true
}

func (c *CachingMemberSource) remember(key string, u models.Universe) {
	c.mu.Lock()
	c.memo[key] = memoEntry{u: u, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *CachingMemberSource) fromRedis(ctx context.Context, rkey string) (models.Universe, bool) {
	b, err := c.rdb.Get(ctx, rkey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", rkey).Msg("universe cache read failed")
		}
		return models.Universe{}, false
	}
	var u models.Universe
	if err := json.Unmarshal(b, &u); err != nil || len(u.Members) == 0 {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, rkey).Err()
		return models.Universe{}, false
	}
	return u, true
}

func (c *CachingMemberSource) cacheKey(key string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(key))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
