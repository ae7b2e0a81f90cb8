package lookup

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"steeldex/internal/config"
	"steeldex/internal/domain/grade"
	"steeldex/internal/infrastructure/monitoring/logging"
	prom "steeldex/internal/infrastructure/monitoring/prometheus"
)

// missSentinel marks a cached negative answer so repeated unknown names do
// not hammer the service between sync runs.
const missSentinel = "null"

// NewRedisClient builds the cache connection from config.  Returns nil when
// no address is configured.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
}

// CachedClient decorates a Client with a redis cache keyed by the name's
// comparison key, so spelling variants of one grade share an entry.
type CachedClient struct {
	inner   Client
	rdb     *redis.Client
	prefix  string
	ttl     time.Duration
	logger  logging.Logger
	metrics *prom.Metrics
}

// NewCachedClient wraps inner with the cache.  A nil redis client returns
// inner unchanged; cache failures degrade to direct lookups.
func NewCachedClient(inner Client, rdb *redis.Client, cfg config.RedisConfig, logger logging.Logger, metrics *prom.Metrics) Client {
	if rdb == nil {
		return inner
	}
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedClient{
		inner:   inner,
		rdb:     rdb,
		prefix:  cfg.KeyPrefix,
		ttl:     ttl,
		logger:  logger.Named("lookup_cache"),
		metrics: metrics,
	}
}

func (c *CachedClient) key(name string) string {
	return c.prefix + "lookup:" + grade.ComparisonKey(name)
}

// Lookup serves from the cache when possible and stores fresh answers,
// including misses.
func (c *CachedClient) Lookup(ctx context.Context, name string) (*grade.GradeRecord, error) {
	key := c.key(name)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		c.countCache(true)
		if cached == missSentinel {
			return nil, nil
		}
		var rec grade.GradeRecord
		if jsonErr := json.Unmarshal([]byte(cached), &rec); jsonErr == nil {
			return &rec, nil
		}
		// Corrupt entry: fall through to a fresh lookup.
		c.logger.Warn("dropping corrupt cache entry", logging.String("key", key))
		_ = c.rdb.Del(ctx, key).Err()
	case err != redis.Nil:
		c.logger.Warn("cache read failed", logging.Err(err))
	default:
		c.countCache(false)
	}

	rec, err := c.inner.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	payload := missSentinel
	if rec != nil {
		if b, jsonErr := json.Marshal(rec); jsonErr == nil {
			payload = string(b)
		}
	}
	if setErr := c.rdb.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
		c.logger.Warn("cache write failed", logging.Err(setErr))
	}
	return rec, nil
}

func (c *CachedClient) countCache(hit bool) {
	if c.metrics == nil {
		return
	}
	if hit {
		c.metrics.LookupCacheHits.Inc()
	} else {
		c.metrics.LookupCacheMisses.Inc()
	}
}
