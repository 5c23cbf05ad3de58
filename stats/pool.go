package stats

// PoolStats records pool events (acquire/release/create/resize) through
// the shared store machinery
type PoolStats struct {
	store *Store
}

// RecordAcquire records an item acquisition. activeCount is the pool's
// active count after the acquire; durationMs is the acquire latency.
func (p *PoolStats) RecordAcquire(id string, activeCount int64, durationMs float64) error {
	return p.store.RecordEvent(id, EventAcquire, Operands{
		ActiveCount: activeCount,
		DurationMs:  durationMs,
	})
}

// RecordRelease records an item release. lifetimeSec folds the item's
// lifetime into the running average when positive.
func (p *PoolStats) RecordRelease(id string, activeCount int64, durationMs, lifetimeSec float64) error {
	return p.store.RecordEvent(id, EventRelease, Operands{
		ActiveCount: activeCount,
		DurationMs:  durationMs,
		LifetimeSec: lifetimeSec,
	})
}

// RecordCreate records creation of count new items occupying bytes
func (p *PoolStats) RecordCreate(id string, count, bytes int64) error {
	return p.store.RecordEvent(id, EventCreate, Operands{
		Count: count,
		Bytes: bytes,
	})
}

// RecordResize records a capacity change. itemSize, when known, adjusts
// the byte accounting by (newCapacity-oldCapacity)*itemSize.
func (p *PoolStats) RecordResize(id string, newCapacity, itemSize int64) error {
	return p.store.RecordEvent(id, EventResize, Operands{
		Capacity: newCapacity,
		ItemSize: itemSize,
	})
}

// RecordCacheHit records count pool cache hits
func (p *PoolStats) RecordCacheHit(id string, count int64) error {
	return p.store.RecordEvent(id, EventCacheHit, Operands{Count: count})
}

// RecordCacheMiss records count pool cache misses
func (p *PoolStats) RecordCacheMiss(id string, count int64) error {
	return p.store.RecordEvent(id, EventCacheMiss, Operands{Count: count})
}

// RecordOverflow records an allocation beyond the pool's capacity
func (p *PoolStats) RecordOverflow(id string, count, bytes int64) error {
	return p.store.RecordEvent(id, EventOverflow, Operands{
		Count: count,
		Bytes: bytes,
	})
}
