package stats

// LogStats records logging-subsystem events (message/batch/flush/target
// operation) through the shared store machinery
type LogStats struct {
	store *Store
}

// RecordMessage records count processed messages totalling bytes
func (l *LogStats) RecordMessage(id string, count, bytes int64) error {
	return l.store.RecordEvent(id, EventMessage, Operands{
		Count: count,
		Bytes: bytes,
	})
}

// RecordBatch records one processed batch and its processing time
func (l *LogStats) RecordBatch(id string, durationMs float64) error {
	return l.store.RecordEvent(id, EventBatch, Operands{DurationMs: durationMs})
}

// RecordFlush records one flush and its duration
func (l *LogStats) RecordFlush(id string, durationMs float64) error {
	return l.store.RecordEvent(id, EventFlush, Operands{DurationMs: durationMs})
}

// RecordTargetOperation records one operation against a log target
func (l *LogStats) RecordTargetOperation(id string, failed bool) error {
	return l.store.RecordEvent(id, EventTargetOp, Operands{Failed: failed})
}
