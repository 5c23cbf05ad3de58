package stats

import (
	"time"
)

// GlobalScope is the record id of the aggregate across all entities
const GlobalScope = "_global"

// Average is a running average stored as accumulator plus count,
// so records never retain raw sample history.
type Average struct {
	Sum   float64
	Count int64
}

func (a *Average) add(v float64) {
	a.Sum += v
	a.Count++
}

func (a *Average) merge(o Average) {
	a.Sum += o.Sum
	a.Count += o.Count
}

// Mean returns the current mean, zero when no samples were recorded
func (a Average) Mean() float64 {
	if a.Count == 0 {
		return 0
	}
	return a.Sum / float64(a.Count)
}

// Record holds the counters and timing aggregates tracked for one
// entity, or for the global scope. Derived ratios are computed on read
// and never stored.
type Record struct {
	// Identity
	ID              string
	DisplayName     string
	Kind            string
	CreatedAt       time.Time
	LastResetAt     time.Time
	LastOperationAt time.Time

	// Counters
	ActiveCount         int64
	Capacity            int64
	TotalCreated        int64
	TotalAcquired       int64
	TotalReleased       int64
	CacheHits           int64
	CacheMisses         int64
	ResizeOperations    int64
	OverflowAllocations int64

	// Timing aggregates
	AcquireTime    Average // milliseconds
	ReleaseTime    Average // milliseconds
	StartTime      Average // milliseconds
	CompletionTime Average // milliseconds
	FlushTime      Average // milliseconds
	Lifetime       Average // seconds

	// Memory
	TotalBytes int64
	PeakBytes  int64
}

// UsageRatio returns ActiveCount/Capacity, zero when capacity is zero
func (r *Record) UsageRatio() float64 {
	if r.Capacity <= 0 {
		return 0
	}
	return clamp01(float64(r.ActiveCount) / float64(r.Capacity))
}

// CacheHitRatio returns hits/(hits+misses), zero when no lookups happened
func (r *Record) CacheHitRatio() float64 {
	total := r.CacheHits + r.CacheMisses
	if total <= 0 {
		return 0
	}
	return clamp01(float64(r.CacheHits) / float64(total))
}

// FragmentationRatio returns 1 - ActiveCount/Capacity, zero when capacity is zero
func (r *Record) FragmentationRatio() float64 {
	if r.Capacity <= 0 {
		return 0
	}
	return clamp01(1 - float64(r.ActiveCount)/float64(r.Capacity))
}

// Efficiency is a weighted combination of the derived ratios
func (r *Record) Efficiency() float64 {
	return clamp01(0.4*r.UsageRatio() + 0.4*r.CacheHitRatio() + 0.2*(1-r.FragmentationRatio()))
}

// metricKind enumerates the metrics a record can resolve by name.
// The string form stays the public contract; the enum keeps dispatch
// exhaustive so a new metric is a compile-time addition.
type metricKind uint8

const (
	metricActiveCount metricKind = iota
	metricCapacity
	metricTotalCreated
	metricTotalAcquired
	metricTotalReleased
	metricCacheHits
	metricCacheMisses
	metricResizeOperations
	metricOverflowAllocations
	metricTotalBytes
	metricPeakBytes
	metricUsageRatio
	metricCacheHitRatio
	metricFragmentationRatio
	metricEfficiency
	metricAvgAcquireMs
	metricAvgReleaseMs
	metricAvgStartMs
	metricAvgCompletionMs
	metricAvgFlushMs
	metricAvgLifetimeSec
)

var metricNames = map[string]metricKind{
	"active_count":         metricActiveCount,
	"capacity":             metricCapacity,
	"total_created":        metricTotalCreated,
	"total_acquired":       metricTotalAcquired,
	"total_released":       metricTotalReleased,
	"cache_hits":           metricCacheHits,
	"cache_misses":         metricCacheMisses,
	"resize_operations":    metricResizeOperations,
	"overflow_allocations": metricOverflowAllocations,
	"total_bytes":          metricTotalBytes,
	"peak_bytes":           metricPeakBytes,
	"usage_ratio":          metricUsageRatio,
	"cache_hit_ratio":      metricCacheHitRatio,
	"fragmentation_ratio":  metricFragmentationRatio,
	"efficiency":           metricEfficiency,
	"avg_acquire_ms":       metricAvgAcquireMs,
	"avg_release_ms":       metricAvgReleaseMs,
	"avg_start_ms":         metricAvgStartMs,
	"avg_completion_ms":    metricAvgCompletionMs,
	"avg_flush_ms":         metricAvgFlushMs,
	"avg_lifetime_sec":     metricAvgLifetimeSec,
}

// MetricValue resolves a metric by its public name. An unrecognized
// name resolves to zero so misconfigured alert rules stay silent
// instead of failing registration.
func (r *Record) MetricValue(name string) float64 {
	kind, ok := metricNames[name]
	if !ok {
		return 0
	}
	return r.metricValue(kind)
}

func (r *Record) metricValue(kind metricKind) float64 {
	switch kind {
	case metricActiveCount:
		return float64(r.ActiveCount)
	case metricCapacity:
		return float64(r.Capacity)
	case metricTotalCreated:
		return float64(r.TotalCreated)
	case metricTotalAcquired:
		return float64(r.TotalAcquired)
	case metricTotalReleased:
		return float64(r.TotalReleased)
	case metricCacheHits:
		return float64(r.CacheHits)
	case metricCacheMisses:
		return float64(r.CacheMisses)
	case metricResizeOperations:
		return float64(r.ResizeOperations)
	case metricOverflowAllocations:
		return float64(r.OverflowAllocations)
	case metricTotalBytes:
		return float64(r.TotalBytes)
	case metricPeakBytes:
		return float64(r.PeakBytes)
	case metricUsageRatio:
		return r.UsageRatio()
	case metricCacheHitRatio:
		return r.CacheHitRatio()
	case metricFragmentationRatio:
		return r.FragmentationRatio()
	case metricEfficiency:
		return r.Efficiency()
	case metricAvgAcquireMs:
		return r.AcquireTime.Mean()
	case metricAvgReleaseMs:
		return r.ReleaseTime.Mean()
	case metricAvgStartMs:
		return r.StartTime.Mean()
	case metricAvgCompletionMs:
		return r.CompletionTime.Mean()
	case metricAvgFlushMs:
		return r.FlushTime.Mean()
	case metricAvgLifetimeSec:
		return r.Lifetime.Mean()
	}
	return 0
}

// Flatten returns all metrics as a flat string-keyed map, for display,
// serialization or monitoring export
func (r *Record) Flatten() map[string]float64 {
	out := make(map[string]float64, len(metricNames))
	for name, kind := range metricNames {
		out[name] = r.metricValue(kind)
	}
	return out
}

// apply mutates the record according to the event's update rule.
// Unknown kinds are rejected; the store only applies rules it knows.
func (r *Record) apply(kind EventKind, op Operands, now time.Time) error {
	switch kind {
	case EventAcquire:
		r.TotalAcquired++
		r.ActiveCount = op.ActiveCount
		r.AcquireTime.add(op.DurationMs)
	case EventRelease:
		r.TotalReleased++
		r.ActiveCount = op.ActiveCount
		r.ReleaseTime.add(op.DurationMs)
		if op.LifetimeSec > 0 {
			r.Lifetime.add(op.LifetimeSec)
		}
	case EventCreate:
		r.TotalCreated += op.count()
		r.addBytes(op.Bytes)
	case EventResize:
		old := r.Capacity
		r.Capacity = op.Capacity
		r.ResizeOperations++
		if op.ItemSize > 0 {
			r.addBytes((op.Capacity - old) * op.ItemSize)
		}
	case EventCacheHit:
		r.CacheHits += op.count()
	case EventCacheMiss:
		r.CacheMisses += op.count()
	case EventOverflow:
		r.OverflowAllocations += op.count()
		r.addBytes(op.Bytes)
	case EventStart:
		r.TotalCreated++
		r.ActiveCount = op.ActiveCount
		r.StartTime.add(op.DurationMs)
	case EventComplete:
		r.TotalReleased++
		r.CacheHits++
		r.ActiveCount = op.ActiveCount
		r.CompletionTime.add(op.DurationMs)
		if op.LifetimeSec > 0 {
			r.Lifetime.add(op.LifetimeSec)
		}
	case EventCancel:
		r.OverflowAllocations++
		r.ActiveCount = op.ActiveCount
	case EventFail:
		r.CacheMisses++
		r.ActiveCount = op.ActiveCount
	case EventMessage:
		r.TotalAcquired += op.count()
		r.addBytes(op.Bytes)
	case EventBatch:
		r.TotalCreated++
		r.CompletionTime.add(op.DurationMs)
	case EventFlush:
		r.TotalReleased++
		r.FlushTime.add(op.DurationMs)
	case EventTargetOp:
		if op.Failed {
			r.CacheMisses++
		} else {
			r.CacheHits++
		}
	default:
		return ErrUnknownEvent
	}

	r.LastOperationAt = now
	return nil
}

func (r *Record) addBytes(delta int64) {
	r.TotalBytes += delta
	if r.TotalBytes < 0 {
		r.TotalBytes = 0
	}
	if r.TotalBytes > r.PeakBytes {
		r.PeakBytes = r.TotalBytes
	}
}

// reset zeroes counters and aggregates but keeps identity and creation time
func (r *Record) reset(now time.Time) {
	r.ActiveCount = 0
	r.Capacity = 0
	r.TotalCreated = 0
	r.TotalAcquired = 0
	r.TotalReleased = 0
	r.CacheHits = 0
	r.CacheMisses = 0
	r.ResizeOperations = 0
	r.OverflowAllocations = 0
	r.AcquireTime = Average{}
	r.ReleaseTime = Average{}
	r.StartTime = Average{}
	r.CompletionTime = Average{}
	r.FlushTime = Average{}
	r.Lifetime = Average{}
	r.TotalBytes = 0
	r.PeakBytes = 0
	r.LastResetAt = now
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
