package services

import (
	"time"

	"github.com/nrahmani/invoice-dashboard/pkg/logger"
	"github.com/nrahmani/invoice-dashboard/pkg/prom"
	"github.com/nrahmani/invoice-dashboard/pkg/redis"
)

// ViewCache holds rendered representations of named views. Invalidating a
// path forces the next render of that view to recompute instead of serving
// a stale copy.
type ViewCache interface {
	Get(path string) ([]byte, bool)
	Put(path string, body []byte)
	Invalidate(path string) error
}

const viewKeyPrefix = "view:"

type RedisViewCache struct {
	redis redis.RedisAdapter
	ttl   time.Duration
}

func NewRedisViewCache(adapter redis.RedisAdapter, ttl time.Duration) *RedisViewCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisViewCache{
		redis: adapter,
		ttl:   ttl,
	}
}

// Get returns the cached body for a view path. Any redis failure reads as
// a miss so the caller falls through to the store.
func (c *RedisViewCache) Get(path string) ([]byte, bool) {
	body, err := c.redis.Get(viewKeyPrefix + path)
	if err != nil {
		if err != redis.NilError {
			logger.Warn("view cache read failed", "path", path, "error", err)
		}
		prom.IncCounterVec(prom.SystemInvoices, prom.MetricInvoiceListingCacheTotal, "miss")
		return nil, false
	}
	prom.IncCounterVec(prom.SystemInvoices, prom.MetricInvoiceListingCacheTotal, "hit")
	return body, true
}

// Put stores a rendered view body. Best effort: a failed write only costs
// the next request a recompute.
func (c *RedisViewCache) Put(path string, body []byte) {
	if err := c.redis.Set(viewKeyPrefix+path, body, c.ttl); err != nil {
		logger.Warn("view cache write failed", "path", path, "error", err)
	}
}

func (c *RedisViewCache) Invalidate(path string) error {
	return c.redis.Del(viewKeyPrefix + path)
}
