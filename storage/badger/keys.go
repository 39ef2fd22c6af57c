package badger

import (
	"encoding/binary"
	"time"

	"github.com/poiesic/trendscout/core"
)

// Key prefixes for different data types
const (
	snapshotPrefix   = "snap:"
	trendCachePrefix = "trend:"
)

// selectionTerminator separates the selection from the ordered suffix so one
// selection is never a key prefix of a longer one.
const selectionTerminator = 0x00

// makeSnapshotPrefix generates the prefix shared by all snapshots of a selection.
// Format: prefix selection 0x00
func makeSnapshotPrefix(selection string) []byte {
	buf := make([]byte, 0, len(snapshotPrefix)+len(selection)+1)
	buf = append(buf, snapshotPrefix...)
	buf = append(buf, selection...)
	return append(buf, selectionTerminator)
}

// makeSnapshotKey generates a composite key ordered by creation time.
// Format: prefix selection 0x00 createdAt id
func makeSnapshotKey(selection string, createdAt time.Time, id core.ID) []byte {
	prefix := makeSnapshotPrefix(selection)
	buf := make([]byte, len(prefix)+16) // 8 bytes for timestamp + 8 bytes for ID
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeSnapshotSeekKey generates a key past every snapshot of a selection,
// for reverse iteration.
func makeSnapshotSeekKey(selection string) []byte {
	prefix := makeSnapshotPrefix(selection)
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	for i := offset; i < len(buf); i++ {
		buf[i] = 0xFF
	}
	return buf
}

// makeTrendCacheKey generates the key for a cached series.
// Format: prefix id
func makeTrendCacheKey(key core.ID) []byte {
	buf := make([]byte, len(trendCachePrefix)+8)
	offset := copy(buf, trendCachePrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(key))
	return buf
}
