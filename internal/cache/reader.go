package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/pressroom/internal/logging"
)

// Reader holds what Read needs to serve a key: the store, the TTL of
// entries it populates, counters and a logger for cache faults.
type Reader struct {
	store   Store
	ttl     time.Duration
	metrics *Metrics
	log     logging.Logger
}

func NewReader(store Store, ttl time.Duration, metrics *Metrics, log logging.Logger) *Reader {
	return &Reader{store: store, ttl: ttl, metrics: metrics, log: log}
}

// Read returns the value cached under key, or calls compute, caches its
// JSON encoding for the reader's TTL and returns it. Entries are populated
// only here, on a miss.
//
// The store is never the source of truth: a failing Get or Set, or an entry
// that no longer decodes into T, is logged and the value is computed. An
// error from compute is returned unchanged and nothing is cached.
//
// A compute that started before a concurrent write may Set its result after
// the writer invalidated the key; that stale entry lives at most one TTL.
func Read[T any](ctx context.Context, r *Reader, key string, compute func(ctx context.Context) (T, error)) (T, error) {
	kind := kindOf(key)

	raw, err := r.store.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		decodeErr := json.Unmarshal(raw, &v)
		if decodeErr == nil {
			r.metrics.request(kind, "hit")
			return v, nil
		}
		r.metrics.request(kind, "error")
		r.log.Warn(ctx, "discarding undecodable cache entry", "key", key, "error", decodeErr)
		if err := r.store.Delete(ctx, key); err != nil {
			r.log.Warn(ctx, "cache delete failed", "key", key, "error", err)
		}
	case errors.Is(err, ErrMiss):
		r.metrics.request(kind, "miss")
	default:
		r.metrics.request(kind, "error")
		r.log.Warn(ctx, "cache get failed", "key", key, "error", err)
	}

	v, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	raw, err = json.Marshal(v)
	if err != nil {
		r.log.Warn(ctx, "cache encode failed", "key", key, "error", err)
		return v, nil
	}
	if err := r.store.Set(ctx, key, raw, r.ttl); err != nil {
		r.log.Warn(ctx, "cache set failed", "key", key, "error", err)
	}

	return v, nil
}
