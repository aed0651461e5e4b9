package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pressroom/internal/logging"
)

// Invalidator removes cache entries made stale by a write. List keys are
// parameterized by page, limit and filters, so they are found by
// enumerating the kind's list prefix and deleted one exact key at a time.
type Invalidator struct {
	store   Store
	metrics *Metrics
	log     logging.Logger
}

func NewInvalidator(store Store, metrics *Metrics, log logging.Logger) *Invalidator {
	return &Invalidator{store: store, metrics: metrics, log: log}
}

// InvalidateItem deletes the single-record key of (kind, id).
func (i *Invalidator) InvalidateItem(ctx context.Context, kind string, id int64) error {
	key := ItemKey(kind, id)
	if err := i.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	i.metrics.invalidated(kind, "item", 1)
	return nil
}

// InvalidateLists deletes every live list key of kind, whatever page,
// limit or filter produced it.
func (i *Invalidator) InvalidateLists(ctx context.Context, kind string) error {
	keys, err := i.store.Keys(ctx, ListPrefix(kind))
	if err != nil {
		return fmt.Errorf("scan %s: %w", ListPrefix(kind), err)
	}

	var (
		errs    []error
		deleted int
	)
	for _, key := range keys {
		if err := i.store.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
			continue
		}
		deleted++
	}

	i.metrics.invalidated(kind, "list", deleted)
	i.log.Debug(ctx, "list keys invalidated", "kind", kind, "count", deleted)
	return errors.Join(errs...)
}

// Invalidate removes the item key of (kind, id) and all list keys of kind.
func (i *Invalidator) Invalidate(ctx context.Context, kind string, id int64) error {
	return errors.Join(i.InvalidateItem(ctx, kind, id), i.InvalidateLists(ctx, kind))
}
