// Package cache implements the cache-aside layer in front of the article
// store: a Store abstraction with in-memory (sturdyc) and on-disk (badger)
// backends, deterministic key construction, a generic get-or-compute reader
// and an invalidator that removes item and list entries after writes.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is a key-value store with per-entry expiry and prefix enumeration.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Keys lists live keys starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
