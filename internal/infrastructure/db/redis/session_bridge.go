package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Fritte91/247LocalFinest/internal/core/session"
)

const sessionKeyPrefix = "localfinest:"

// SessionBridge mirrors session blobs into Redis strings.
// Key format: localfinest:session:<id>:<user|cart>
// Every write resets the TTL of all keys of the session, so the user and cart
// blobs of an idle session expire together.
type SessionBridge struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewSessionBridge wraps client. A ttl of zero keeps keys forever.
func NewSessionBridge(client redis.Cmdable, ttl time.Duration) *SessionBridge {
	return &SessionBridge{client: client, ttl: ttl}
}

func (b *SessionBridge) Read(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := b.client.Get(ctx, b.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("session get: %w", err)
	}
	return v, true, nil
}

func (b *SessionBridge) Write(ctx context.Context, key string, value []byte) error {
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, b.key(key), value, b.ttl)
		if b.ttl > 0 {
			for _, k := range siblings(key) {
				pipe.Expire(ctx, b.key(k), b.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (b *SessionBridge) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, b.key(key)).Err(); err != nil {
		return fmt.Errorf("session del: %w", err)
	}
	return nil
}

func (b *SessionBridge) key(k string) string {
	return sessionKeyPrefix + k
}

// siblings returns the other keys of the session that key belongs to.
func siblings(key string) []string {
	i := strings.LastIndexByte(key, ':')
	prefix, own := key[:i+1], key[i+1:]
	var out []string
	for _, k := range []string{session.KeyUser, session.KeyCart} {
		if k != own {
			out = append(out, prefix+k)
		}
	}
	return out
}
