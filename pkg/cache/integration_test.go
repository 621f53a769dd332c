//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gotest.tools/v3/assert"
)

func TestMongoCache_Integration(t *testing.T) {
	uri := os.Getenv("TOPICGRID_MONGO_URI")
	if uri == "" {
		t.Skip("TOPICGRID_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := NewMongoCache(ctx, MongoOptions{
		URI:        uri,
		Database:   "topicgrid_test",
		Collection: "cache_" + uuid.NewString()[:8],
	})
	assert.NilError(t, err)
	defer func() {
		_ = c.coll.Drop(ctx)
		c.Close()
	}()

	_, hit, err := c.Get(ctx, "layout:a")
	assert.NilError(t, err)
	assert.Assert(t, !hit)

	assert.NilError(t, c.Set(ctx, "layout:a", []byte("v1"), time.Hour))
	assert.NilError(t, c.Set(ctx, "layout:a", []byte("v2"), time.Hour))
	data, hit, err := c.Get(ctx, "layout:a")
	assert.NilError(t, err)
	assert.Assert(t, hit)
	assert.Equal(t, string(data), "v2")

	assert.NilError(t, c.Set(ctx, "layout:b", []byte("x"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	_, hit, err = c.Get(ctx, "layout:b")
	assert.NilError(t, err)
	assert.Assert(t, !hit, "expired documents must miss before the ttl sweep")

	assert.NilError(t, c.Delete(ctx, "layout:a"))
	_, hit, _ = c.Get(ctx, "layout:a")
	assert.Assert(t, !hit)
}

func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("TOPICGRID_REDIS_ADDR")
	if addr == "" {
		t.Skip("TOPICGRID_REDIS_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	prefix := "topicgrid_test:" + uuid.NewString()[:8] + ":"
	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr, Prefix: prefix})
	assert.NilError(t, err)
	defer c.Close()

	assert.NilError(t, c.Set(ctx, "artifact:x", []byte("svg"), time.Minute))
	data, hit, err := c.Get(ctx, "artifact:x")
	assert.NilError(t, err)
	assert.Assert(t, hit)
	assert.Equal(t, string(data), "svg")
	assert.NilError(t, c.Delete(ctx, "artifact:x"))
}
