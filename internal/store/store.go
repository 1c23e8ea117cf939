// Package store provides the cache store used by the weather resolution
// pipeline. Values are opaque serialized payloads; expiry is per entry.
package store

import (
	"context"
	"time"
)

// Store is the contract the in-memory store and the redis store satisfy.
// An expired entry is indistinguishable from an absent one.
type Store interface {
	Has(ctx context.Context, key string) bool
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
