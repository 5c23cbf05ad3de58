package stats

import (
	"fmt"
)

// EventKind identifies an instrumentation event. Each concrete engine
// (pool, scheduled work, logging) uses its own slice of the vocabulary;
// the store machinery is shared.
type EventKind uint8

const (
	EventUnknown EventKind = iota

	// Pool events
	EventAcquire
	EventRelease
	EventCreate
	EventResize
	EventCacheHit
	EventCacheMiss
	EventOverflow

	// Scheduled work events
	EventStart
	EventComplete
	EventCancel
	EventFail

	// Logging events
	EventMessage
	EventBatch
	EventFlush
	EventTargetOp

	eventKindCount
)

var eventKindNames = map[EventKind]string{
	EventAcquire:   "acquire",
	EventRelease:   "release",
	EventCreate:    "create",
	EventResize:    "resize",
	EventCacheHit:  "cache_hit",
	EventCacheMiss: "cache_miss",
	EventOverflow:  "overflow",
	EventStart:     "start",
	EventComplete:  "complete",
	EventCancel:    "cancel",
	EventFail:      "fail",
	EventMessage:   "message",
	EventBatch:     "batch",
	EventFlush:     "flush",
	EventTargetOp:  "target_operation",
}

// String returns the wire/display name of the event kind
func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether the kind is a known event kind
func (k EventKind) Valid() bool {
	return k > EventUnknown && k < eventKindCount
}

// ParseEventKind resolves an event kind from its string form
func ParseEventKind(name string) (EventKind, error) {
	for k, n := range eventKindNames {
		if n == name {
			return k, nil
		}
	}
	return EventUnknown, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
}

// Operands carries the numeric payload of an event. Fields not relevant
// to a given event kind are left zero.
type Operands struct {
	ActiveCount int64   // currently active items/tasks, last observed
	Capacity    int64   // new capacity for resize events
	Count       int64   // item count; zero means one
	DurationMs  float64 // operation duration in milliseconds
	LifetimeSec float64 // item lifetime in seconds, zero means unknown
	Bytes       int64   // byte size delta for memory-bearing events
	ItemSize    int64   // per-item size estimate, zero means unknown
	Failed      bool    // outcome flag for target operations
}

func (op Operands) count() int64 {
	if op.Count <= 0 {
		return 1
	}
	return op.Count
}
