// Package cache provides the time-expiring, bounded key-value stores behind
// player search, price lookup and dialog sessions.
package cache

import (
	"context"
	"time"
)

// Cache is safe for concurrent single-key use. Failures inside an
// implementation are treated as misses.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Set(ctx context.Context, key string, value V)
	Delete(ctx context.Context, key string)
}

// Clock returns the current time; tests inject a fake one.
type Clock func() time.Time
