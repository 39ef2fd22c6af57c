package storage

import (
	"context"
	"time"

	"github.com/poiesic/trendscout/core"
)

// SnapshotRepository persists ranked analysis results per taxonomy selection.
// Implementations must be thread-safe and support concurrent access.
type SnapshotRepository interface {
	// SaveSnapshot stores a snapshot.
	// Assigns an ID when Id is zero and sets CreatedAt when it is zero.
	// Returns ErrInvalidQuery when Selection is empty.
	SaveSnapshot(ctx context.Context, snapshot *core.Snapshot) error

	// LatestSnapshot returns the most recently created snapshot for selection.
	// Returns ErrNotFound if none exists.
	LatestSnapshot(ctx context.Context, selection string) (*core.Snapshot, error)

	// ListSnapshots returns snapshots for selection, newest first.
	// A limit <= 0 returns all of them.
	ListSnapshots(ctx context.Context, selection string, limit int) ([]*core.Snapshot, error)
}

// TrendCache stores fetched series keyed by query fingerprint.
type TrendCache interface {
	// GetSeries returns the cached series for key. ok is false on a miss or
	// after the entry expired.
	GetSeries(ctx context.Context, key core.ID) (points []core.TrendPoint, ok bool, err error)

	// PutSeries stores points under key. A ttl <= 0 keeps the entry forever.
	PutSeries(ctx context.Context, key core.ID, points []core.TrendPoint, ttl time.Duration) error
}
