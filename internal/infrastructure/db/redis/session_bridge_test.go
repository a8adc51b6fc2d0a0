package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient connects to REDIS_ADDR (default localhost:6379) and skips the
// test when nothing is listening there.
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client, err := Connect(context.Background(), Config{Addr: addr, Timeout: 500 * time.Millisecond})
	if err != nil {
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSessionBridge_RoundTrip(t *testing.T) {
	client := newTestClient(t)
	b := NewSessionBridge(client, time.Minute)
	ctx := context.Background()
	key := "test:" + uuid.NewString() + ":cart"
	t.Cleanup(func() { _ = b.Delete(ctx, key) })

	_, ok, err := b.Read(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "missing key must read as absent")

	require.NoError(t, b.Write(ctx, key, []byte(`[{"id":1}]`)))
	got, ok, err := b.Read(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":1}]`, string(got))

	ttl, err := client.TTL(ctx, sessionKeyPrefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, b.Delete(ctx, key))
	_, ok, err = b.Read(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSiblings(t *testing.T) {
	assert.Equal(t, []string{"session:abc:cart"}, siblings("session:abc:user"))
	assert.Equal(t, []string{"session:abc:user"}, siblings("session:abc:cart"))
	assert.Equal(t, []string{"user", "cart"}, siblings("other"))
}

func TestSessionBridge_WriteRefreshesSiblingTTL(t *testing.T) {
	client := newTestClient(t)
	b := NewSessionBridge(client, time.Hour)
	ctx := context.Background()
	prefix := "session:" + uuid.NewString() + ":"
	t.Cleanup(func() {
		_ = b.Delete(ctx, prefix+"user")
		_ = b.Delete(ctx, prefix+"cart")
	})

	require.NoError(t, b.Write(ctx, prefix+"user", []byte(`{"id":"u1"}`)))
	require.NoError(t, client.Expire(ctx, sessionKeyPrefix+prefix+"user", time.Second).Err())

	require.NoError(t, b.Write(ctx, prefix+"cart", []byte(`[]`)))

	userTTL, err := client.TTL(ctx, sessionKeyPrefix+prefix+"user").Result()
	require.NoError(t, err)
	assert.Greater(t, userTTL, time.Minute, "cart write must keep the user blob alive")
}

func TestSessionBridge_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	b := NewSessionBridge(client, 0)

	_, ok, err := b.Read(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, b.Write(context.Background(), "k", []byte("v")))
}
