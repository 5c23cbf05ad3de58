package export

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/perfgauge/perfgauge/stats"
)

// Config represents exporter configuration
type Config struct {
	Interval time.Duration  // snapshot interval
	Logger   *logrus.Logger // flush failures are logged here
}

// DefaultConfig returns the default exporter configuration
func DefaultConfig() *Config {
	return &Config{
		Interval: 30 * time.Second,
	}
}

// Validate validates the exporter configuration
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("export interval must be greater than 0, got %v", c.Interval)
	}
	return nil
}

// Exporter periodically flattens all store records, the global record
// included, and pushes them to a Storage backend. It is a push-out
// surface for external monitoring; the store itself stays in-memory.
type Exporter struct {
	store   *stats.Store
	storage Storage
	cfg     *Config
	log     *logrus.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewExporter creates an exporter for the given store and storage
func NewExporter(store *stats.Store, storage Storage, cfg *Config) (*Exporter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid export config: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Exporter{
		store:   store,
		storage: storage,
		cfg:     cfg,
		log:     log,
	}, nil
}

// Start begins periodic export until the context ends or Stop is called
func (e *Exporter) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(e.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				e.Flush()
			}
		}
	}()
}

// Stop stops periodic export and flushes one final time
func (e *Exporter) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
	e.Flush()
}

// Flush collects one snapshot per tracked entity plus the global
// aggregate and stores the batch
func (e *Exporter) Flush() {
	now := time.Now()

	records := e.store.GetAllRecords()
	batch := make([]Snapshot, 0, len(records)+1)
	for id, rec := range records {
		batch = append(batch, Snapshot{
			Scope:     id,
			Values:    rec.Flatten(),
			Timestamp: now,
		})
	}

	global := e.store.GetGlobalRecord()
	batch = append(batch, Snapshot{
		Scope:     stats.GlobalScope,
		Values:    global.Flatten(),
		Timestamp: now,
	})

	if err := e.storage.Store(batch); err != nil {
		e.log.Warnf("snapshot export failed: %v", err)
	}
}
