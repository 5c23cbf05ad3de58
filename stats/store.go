package stats

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/perfgauge/perfgauge/alerts"
)

// Config represents store configuration
type Config struct {
	Name    string         // store name, used as the global record's display name
	Kind    string         // classification seeded into lazily created records
	Debug   bool           // enable the development access guard
	Sink    alerts.Sink    // alert destination, NoOpSink when nil
	Breaker bool           // wrap the alert sink in a circuit breaker
	Logger  *logrus.Logger // lifecycle and alert-failure logging
}

// DefaultConfig returns the default store configuration
func DefaultConfig() *Config {
	return &Config{
		Name: "stats",
		Kind: "generic",
	}
}

// Validate validates the store configuration
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("store name must not be empty")
	}
	return nil
}

// Store is the authoritative, thread-safe mapping from entity id to
// Record, plus the single global aggregate. Readers run concurrently;
// a write transition (apply event, recompute global, evaluate alerts)
// is one atomic unit, so readers never observe a record without its
// matching global and alert side effects.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
	global  Record

	cfg      *Config
	registry *alerts.Registry
	log      *logrus.Logger
	guard    accessGuard

	// Deferred update chain
	tailMu  sync.Mutex
	tail    *Completion
	pending sync.WaitGroup
	closed  bool

	// Facades, sharing this store's machinery
	pool *PoolStats
	task *TaskStats
	logs *LogStats
}

// New creates a store. A nil config selects defaults.
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stats config: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	now := time.Now()
	s := &Store{
		records: make(map[string]*Record),
		global: Record{
			ID:          GlobalScope,
			DisplayName: cfg.Name,
			Kind:        "global",
			CreatedAt:   now,
		},
		cfg: cfg,
		registry: alerts.NewRegistry(&alerts.Config{
			Sink:    cfg.Sink,
			Breaker: cfg.Breaker,
			Logger:  log,
		}),
		log:   log,
		guard: accessGuard{enabled: cfg.Debug},
	}

	s.pool = &PoolStats{store: s}
	s.task = &TaskStats{store: s}
	s.logs = &LogStats{store: s}

	return s, nil
}

// Alerts returns the store's alert registry
func (s *Store) Alerts() *alerts.Registry {
	return s.registry
}

// Pool returns the pool-vocabulary facade
func (s *Store) Pool() *PoolStats { return s.pool }

// Task returns the scheduled-work-vocabulary facade
func (s *Store) Task() *TaskStats { return s.task }

// Log returns the logging-vocabulary facade
func (s *Store) Log() *LogStats { return s.logs }

// RecordEvent applies one observed event to the entity's record,
// creating the record on first sight. Unknown event kinds are rejected.
func (s *Store) RecordEvent(id string, kind EventKind, op Operands) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownEvent, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(id, kind, op)
}

// applyLocked runs the full write transition under the held write lock
func (s *Store) applyLocked(id string, kind EventKind, op Operands) error {
	if s.records == nil {
		return ErrStoreClosed
	}

	s.guard.beginWrite()
	defer s.guard.endWrite()

	now := time.Now()
	rec, ok := s.records[id]
	if !ok {
		rec = &Record{
			ID:          id,
			DisplayName: id,
			Kind:        s.cfg.Kind,
			CreatedAt:   now,
		}
		s.records[id] = rec
		s.log.WithFields(logrus.Fields{
			"store":  s.cfg.Name,
			"entity": id,
		}).Debug("tracking new entity")
	}

	if err := rec.apply(kind, op, now); err != nil {
		return err
	}

	s.recomputeGlobalLocked()

	snapshot := *rec
	global := s.global
	s.registry.Evaluate(id, &snapshot)
	s.registry.Evaluate(alerts.ScopeGlobal, &global)

	return nil
}

// GetRecord returns a copy of the entity's record. An unseen id yields
// a zero-value record carrying the id; absence is not an error.
func (s *Store) GetRecord(id string) Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.guard.beginRead()
	defer s.guard.endRead()

	if rec, ok := s.records[id]; ok {
		return *rec
	}
	return Record{ID: id, DisplayName: id, Kind: s.cfg.Kind}
}

// GetAllRecords returns a snapshot copy of all records, safe to iterate
// without holding any lock
func (s *Store) GetAllRecords() map[string]Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.guard.beginRead()
	defer s.guard.endRead()

	out := make(map[string]Record, len(s.records))
	for id, rec := range s.records {
		out[id] = *rec
	}
	return out
}

// GetGlobalRecord returns a copy of the aggregate across all entities
func (s *Store) GetGlobalRecord() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.guard.beginRead()
	defer s.guard.endRead()

	return s.global
}

// ResetRecord zeroes one entity's counters, preserving identity and
// creation time, and recomputes the global aggregate
func (s *Store) ResetRecord(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.records == nil {
		return ErrStoreClosed
	}

	s.guard.beginWrite()
	defer s.guard.endWrite()

	if rec, ok := s.records[id]; ok {
		rec.reset(time.Now())
		s.recomputeGlobalLocked()
	}
	return nil
}

// ResetAll zeroes every entity's counters and recomputes the global
func (s *Store) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.records == nil {
		return ErrStoreClosed
	}

	s.guard.beginWrite()
	defer s.guard.endWrite()

	now := time.Now()
	for _, rec := range s.records {
		rec.reset(now)
	}
	s.globalResetLocked(now)
	s.recomputeGlobalLocked()
	return nil
}

// Close waits for all pending deferred updates to apply, then releases
// the backing storage. Further operations fail with ErrStoreClosed.
func (s *Store) Close() error {
	s.tailMu.Lock()
	if s.closed {
		s.tailMu.Unlock()
		return ErrStoreClosed
	}
	s.closed = true
	s.tailMu.Unlock()

	// Submitted units of work must complete before the records they
	// touch are released.
	s.pending.Wait()

	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()

	s.log.WithField("store", s.cfg.Name).Debug("store closed")
	return nil
}
