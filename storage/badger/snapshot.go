package badger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/trendscout/core"
	"github.com/poiesic/trendscout/storage"
)

// SnapshotRepository implements storage.SnapshotRepository for BadgerDB.
type SnapshotRepository struct {
	backend *Backend
}

var _ storage.SnapshotRepository = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(backend *Backend) *SnapshotRepository {
	return &SnapshotRepository{
		backend: backend,
	}
}

// SaveSnapshot persists a snapshot under its selection.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, snapshot *core.Snapshot) error {
	if snapshot == nil || snapshot.Selection == "" {
		return fmt.Errorf("%w: snapshot selection is required", storage.ErrInvalidQuery)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}
	if snapshot.Id == 0 {
		snapshot.Id = core.IDFromContent(snapshot.Selection + "|" + snapshot.RunID + "|" +
			strconv.FormatInt(snapshot.CreatedAt.UnixNano(), 10))
	}

	value, err := storage.MarshalSnapshot(snapshot)
	if err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		return tx.Set(makeSnapshotKey(snapshot.Selection, snapshot.CreatedAt, snapshot.Id), value)
	}, true)
}

// LatestSnapshot returns the newest snapshot for selection.
func (r *SnapshotRepository) LatestSnapshot(ctx context.Context, selection string) (*core.Snapshot, error) {
	snapshots, err := r.ListSnapshots(ctx, selection, 1)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, storage.ErrNotFound
	}
	return snapshots[0], nil
}

// ListSnapshots returns snapshots for selection ordered by creation time descending.
func (r *SnapshotRepository) ListSnapshots(ctx context.Context, selection string, limit int) ([]*core.Snapshot, error) {
	if selection == "" {
		return nil, fmt.Errorf("%w: selection is required", storage.ErrInvalidQuery)
	}

	var results []*core.Snapshot
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent snapshots first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		prefix := makeSnapshotPrefix(selection)
		opts.Prefix = prefix

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(makeSnapshotSeekKey(selection)); iter.ValidForPrefix(prefix); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if limit > 0 && len(results) >= limit {
				break
			}

			var snapshot *core.Snapshot
			err := iter.Item().Value(func(val []byte) error {
				var err error
				snapshot, err = storage.UnmarshalSnapshot(val)
				return err
			})
			if err != nil {
				if errors.Is(err, storage.ErrSerializationFailed) {
					r.backend.logger.Warn("skipping unreadable snapshot", "selection", selection, "err", err)
					continue
				}
				return err
			}
			results = append(results, snapshot)
		}
		return nil
	}, false)

	return results, err
}
