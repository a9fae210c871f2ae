package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/sorare-price-bot/server/internal/core/error"
	logx "github.com/sorare-price-bot/server/pkg/logger"
)

// Redis stores JSON encoded values with a server side TTL. Capacity is
// bounded by the server's maxmemory policy.
type Redis[V any] struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedis[V any](rdb redis.Cmdable, prefix string, ttl time.Duration) *Redis[V] {
	return &Redis[V]{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (r *Redis[V]) key(k string) string {
	return fmt.Sprintf("%s:%s", r.prefix, k)
}

func (r *Redis[V]) Get(ctx context.Context, k string) (V, bool) {
	var zero V
	key := r.key(k)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logx.Error().Err(errx.WrapRedis(err)).Str("key", key).Msg("failed to read cache entry from redis")
		}
		return zero, false
	}

	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to unmarshal cache entry")
		return zero, false
	}
	return v, true
}

func (r *Redis[V]) Set(ctx context.Context, k string, value V) {
	key := r.key(k)

	b, err := json.Marshal(value)
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to marshal cache entry")
		return
	}
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(errx.WrapRedis(err)).Str("key", key).Dur("ttl", r.ttl).Msg("failed to write cache entry to redis")
	}
}

func (r *Redis[V]) Delete(ctx context.Context, k string) {
	key := r.key(k)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(errx.WrapRedis(err)).Str("key", key).Msg("failed to delete cache entry from redis")
	}
}

var _ Cache[string] = (*Redis[string])(nil)
