package services

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nrahmani/invoice-dashboard/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupViewCache(t *testing.T) (*miniredis.Miniredis, *RedisViewCache) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	adapter, err := redis.NewRedisAdapter("view-cache-test-"+t.Name(), "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, NewRedisViewCache(adapter, time.Minute)
}

func TestRedisViewCache_PutGet(t *testing.T) {
	_, cache := setupViewCache(t)

	body := []byte(`{"items":[],"total":0}`)
	cache.Put(ListingPath, body)

	got, ok := cache.Get(ListingPath)
	require.True(t, ok)
	assert.Equal(t, body, got)
}

func TestRedisViewCache_MissOnUnknownPath(t *testing.T) {
	_, cache := setupViewCache(t)

	_, ok := cache.Get("/dashboard/unknown")
	assert.False(t, ok)
}

func TestRedisViewCache_Invalidate(t *testing.T) {
	_, cache := setupViewCache(t)

	cache.Put(ListingPath, []byte("stale"))
	require.NoError(t, cache.Invalidate(ListingPath))

	_, ok := cache.Get(ListingPath)
	assert.False(t, ok)
}

func TestRedisViewCache_InvalidateMissingKeyIsNoop(t *testing.T) {
	_, cache := setupViewCache(t)

	assert.NoError(t, cache.Invalidate(ListingPath))
}
