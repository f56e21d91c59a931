package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/switchboard/pkg/adapters/redis"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/value"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisCache_Contract(t *testing.T) {
	_, client := newServer(t)
	ports.RunResultCacheContract(t, redis.NewFromClient(client))
}

func TestRedisCache_TTL_Expiration(t *testing.T) {
	mr, client := newServer(t)
	cache := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "math:add", value.Int(125)))
	_, ok, err := cache.Get(ctx, "math:add")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = cache.Get(ctx, "math:add")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Prefix(t *testing.T) {
	mr, client := newServer(t)
	cache := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))

	require.NoError(t, cache.Set(context.Background(), "k", value.String("v")))

	assert.True(t, mr.Exists("custom:app:k"), "Expected key with custom prefix to exist")
	stored, err := mr.Get("custom:app:k")
	require.NoError(t, err)
	assert.Equal(t, `"v"`, stored)
}

func TestRedisCache_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	cache := redis.New(mr.Addr())
	mr.Close()

	_, _, err := cache.Get(context.Background(), "k")
	assert.Error(t, err)
}
