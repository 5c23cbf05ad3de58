package stats

// TaskStats records scheduled-work events (start/complete/cancel/fail)
// through the shared store machinery
type TaskStats struct {
	store *Store
}

// RecordStart records a task start. durationMs is the scheduling delay
// between submission and start.
func (t *TaskStats) RecordStart(id string, activeCount int64, durationMs float64) error {
	return t.store.RecordEvent(id, EventStart, Operands{
		ActiveCount: activeCount,
		DurationMs:  durationMs,
	})
}

// RecordComplete records a successful completion. durationMs is the run
// time; lifetimeSec the span from submission to completion.
func (t *TaskStats) RecordComplete(id string, activeCount int64, durationMs, lifetimeSec float64) error {
	return t.store.RecordEvent(id, EventComplete, Operands{
		ActiveCount: activeCount,
		DurationMs:  durationMs,
		LifetimeSec: lifetimeSec,
	})
}

// RecordCancel records a cancelled task
func (t *TaskStats) RecordCancel(id string, activeCount int64) error {
	return t.store.RecordEvent(id, EventCancel, Operands{ActiveCount: activeCount})
}

// RecordFail records a failed task
func (t *TaskStats) RecordFail(id string, activeCount int64) error {
	return t.store.RecordEvent(id, EventFail, Operands{ActiveCount: activeCount})
}
