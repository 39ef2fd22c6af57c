package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/trendscout/core"
	"github.com/poiesic/trendscout/storage"
)

// TrendCache implements storage.TrendCache for BadgerDB.
// Expiry is delegated to badger entry TTLs.
type TrendCache struct {
	backend *Backend
}

var _ storage.TrendCache = (*TrendCache)(nil)

// NewTrendCache creates a new TrendCache.
func NewTrendCache(backend *Backend) *TrendCache {
	return &TrendCache{
		backend: backend,
	}
}

// GetSeries returns the cached series for key.
func (c *TrendCache) GetSeries(ctx context.Context, key core.ID) ([]core.TrendPoint, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var points []core.TrendPoint
	found := false
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTrendCacheKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			points, err = storage.UnmarshalSeries(val)
			if err == nil {
				found = true
			}
			return err
		})
	}, false)
	if err != nil {
		return nil, false, err
	}
	return points, found, nil
}

// PutSeries stores points under key, expiring after ttl when ttl is positive.
func (c *TrendCache) PutSeries(ctx context.Context, key core.ID, points []core.TrendPoint, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := storage.MarshalSeries(points)
	if err != nil {
		return err
	}

	return c.backend.WithTx(func(tx *badger.Txn) error {
		entry := badger.NewEntry(makeTrendCacheKey(key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return tx.SetEntry(entry)
	}, true)
}
