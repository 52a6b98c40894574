package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

func TestRedisHelpers(t *testing.T) {
	rdb, mr := newTestRedis(t)
	ctx := context.Background()

	var got []string
	found, err := GetFromRedis(ctx, rdb, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetToRedis(ctx, rdb, "services:1", []string{"a", "b"}, time.Minute))
	found, err = GetFromRedis(ctx, rdb, "services:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, time.Minute, mr.TTL("services:1"))

	require.NoError(t, SetToRedis(ctx, rdb, "services:2", 1, time.Minute))
	require.NoError(t, SetToRedis(ctx, rdb, "locations:1", 1, time.Minute))
	require.NoError(t, DeleteKeysByPattern(ctx, rdb, "services:*"))
	assert.False(t, mr.Exists("services:1"))
	assert.False(t, mr.Exists("services:2"))
	assert.True(t, mr.Exists("locations:1"))
}

func TestRedisHelpersWithoutClient(t *testing.T) {
	ctx := context.Background()
	var v int
	found, err := GetFromRedis(ctx, nil, "k", &v)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetToRedis(ctx, nil, "k", 1, time.Minute))
	assert.NoError(t, DeleteKeysByPattern(ctx, nil, "*"))
}
