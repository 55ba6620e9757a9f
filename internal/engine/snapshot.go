package engine

import (
	"sync"
	"time"

	"LRRBrain/internal/domain/models"
)

// SnapshotCache holds the latest external detector snapshot. The alert
// listener swaps whole values in; readers always see a complete bundle,
// never a partial merge.
type SnapshotCache struct {
	mu   sync.RWMutex
	snap *models.DetectorSnapshot
}

// NewSnapshotCache builds an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{}
}

// Put replaces the cached snapshot.
func (c *SnapshotCache) Put(snap *models.DetectorSnapshot) {
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
}

// Latest returns the cached snapshot, nil when none has arrived.
func (c *SnapshotCache) Latest() *models.DetectorSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Age reports the age of the cached snapshot at now, and false when the
// cache is empty.
func (c *SnapshotCache) Age(now time.Time) (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return 0, false
	}
	return c.snap.Age(now), true
}
