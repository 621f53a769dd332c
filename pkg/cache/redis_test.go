package cache

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"gotest.tools/v3/assert"
)

// fakeRedis is an in-memory redisClient. failures makes the next n calls
// fail with a network error.
type fakeRedis struct {
	data     map[string]string
	ttls     map[string]time.Duration
	failures int
	calls    int
	closed   bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) fail() error {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return &net.OpError{Op: "dial", Net: "tcp", Err: net.UnknownNetworkError("down")}
	}
	return nil
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if err := f.fail(); err != nil {
		return redis.NewStringResult("", err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	if err := f.fail(); err != nil {
		return redis.NewStatusResult("", err)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if err := f.fail(); err != nil {
		return redis.NewIntResult(0, err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", f.fail())
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	c := &RedisCache{client: fake, prefix: "tg:"}

	_, hit, err := c.Get(ctx, "layout:a")
	assert.NilError(t, err)
	assert.Assert(t, !hit)

	assert.NilError(t, c.Set(ctx, "layout:a", []byte("data"), TTLLayout))
	assert.Equal(t, fake.data["tg:layout:a"], "data")
	assert.Equal(t, fake.ttls["tg:layout:a"], TTLLayout)

	data, hit, err := c.Get(ctx, "layout:a")
	assert.NilError(t, err)
	assert.Assert(t, hit)
	assert.Equal(t, string(data), "data")

	assert.NilError(t, c.Delete(ctx, "layout:a"))
	_, hit, _ = c.Get(ctx, "layout:a")
	assert.Assert(t, !hit)

	assert.NilError(t, c.Close())
	assert.Assert(t, fake.closed)
}

func TestRedisCacheRetriesNetworkErrors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	fake.data["k"] = "v"
	fake.failures = 2
	c := &RedisCache{client: fake}

	data, hit, err := c.Get(ctx, "k")
	assert.NilError(t, err)
	assert.Assert(t, hit)
	assert.Equal(t, string(data), "v")
	assert.Equal(t, fake.calls, 3)
}

func TestRedisCacheGivesUp(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	fake.failures = 10
	c := &RedisCache{client: fake}

	_, _, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, fake.calls, retryAttempts)
}

func TestClassifyRedis(t *testing.T) {
	assert.NilError(t, classifyRedis(nil))
	assert.Equal(t, classifyRedis(redis.Nil), redis.Nil)
	assert.Assert(t, IsRetryable(classifyRedis(&net.OpError{Op: "read", Err: net.UnknownNetworkError("x")})))
	assert.Assert(t, !IsRetryable(classifyRedis(ErrCorrupt)))
}
