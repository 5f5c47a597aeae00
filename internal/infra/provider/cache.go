package provider

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"addrsvc/config"
	"addrsvc/internal/domain/service"
	"addrsvc/internal/infra/observability"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = time.Hour

// CachedProvider decorates a SearchProvider with a two-tier response cache
// for free-text lookups: an in-process LRU in front of an optional shared
// Redis tier. Identifier lookups are not cached, they already short-circuit
// through the source index.
type CachedProvider struct {
	service.SearchProvider

	memory  *lru.Cache[string, []json.RawMessage]
	redis   *redis.Client
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCachedProvider wraps inner with the cache tiers enabled by cfg. With a
// nil or empty cache config the inner provider is returned untouched.
func NewCachedProvider(inner service.SearchProvider, cfg *config.CacheConfig, metrics *observability.Metrics, logger *slog.Logger) service.SearchProvider {
	if cfg == nil || (cfg.MemorySize <= 0 && cfg.RedisAddr == "") {
		return inner
	}

	cached := &CachedProvider{
		SearchProvider: inner,
		ttl:            cfg.TTL,
		metrics:        metrics,
		logger:         logger,
	}
	if cached.ttl <= 0 {
		cached.ttl = defaultCacheTTL
	}

	if cfg.MemorySize > 0 {
		// Size is validated above, the constructor only fails on size <= 0.
		cached.memory, _ = lru.New[string, []json.RawMessage](cfg.MemorySize)
	}
	if cfg.RedisAddr != "" {
		cached.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	return cached
}

// Get serves a free-text lookup from the cache tiers, falling back to the
// wrapped provider. Only non-empty answers are cached so a transient miss can
// be retried.
func (c *CachedProvider) Get(ctx context.Context, q service.SearchQuery) ([]json.RawMessage, error) {
	key := c.cacheKey(q)

	if c.memory != nil {
		if cached, ok := c.memory.Get(key); ok {
			c.metrics.ObserveProviderCache("memory", "hit")

			return cached, nil
		}
		c.metrics.ObserveProviderCache("memory", "miss")
	}

	if c.redis != nil {
		if cached, ok := c.redisGet(ctx, key); ok {
			c.metrics.ObserveProviderCache("redis", "hit")
			if c.memory != nil {
				c.memory.Add(key, cached)
			}

			return cached, nil
		}
		c.metrics.ObserveProviderCache("redis", "miss")
	}

	raw, err := c.SearchProvider.Get(ctx, q)
	if err != nil {
		return nil, err
	}

	if len(raw) > 0 {
		if c.memory != nil {
			c.memory.Add(key, raw)
		}
		c.redisSet(ctx, key, raw)
	}

	return raw, nil
}

func (c *CachedProvider) redisGet(ctx context.Context, key string) ([]json.RawMessage, bool) {
	payload, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("provider cache read failed", slog.Any("error", err))
		}

		return nil, false
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		c.logger.Warn("provider cache entry corrupted", slog.Any("error", err))

		return nil, false
	}

	return raw, true
}

func (c *CachedProvider) redisSet(ctx context.Context, key string, raw []json.RawMessage) {
	if c.redis == nil {
		return
	}

	payload, err := json.Marshal(raw)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("provider cache write failed", slog.Any("error", err))
	}
}

// cacheKey derives a stable key from the query and everything that changes
// the provider answer.
func (c *CachedProvider) cacheKey(q service.SearchQuery) string {
	var b strings.Builder
	b.WriteString("provider:")
	b.WriteString(c.ProviderName())
	b.WriteString(":suggest:")
	b.WriteString(strings.ToLower(strings.TrimSpace(q.Query)))
	b.WriteString("|geo:")
	b.WriteString(q.Geo)
	b.WriteString("|ctx:")
	b.WriteString(q.Context)

	if len(q.Helpers) > 0 {
		names := make([]string, 0, len(q.Helpers))
		for name := range q.Helpers {
			names = append(names, name)
		}
		sort.Strings(names)

		h := fnv.New64a()
		for _, name := range names {
			h.Write([]byte(name))
			h.Write([]byte{'='})
			h.Write([]byte(q.Helpers[name]))
			h.Write([]byte{'|'})
		}
		b.WriteString("|h:")
		b.WriteString(strconv.FormatUint(h.Sum64(), 16))
	}

	return b.String()
}
