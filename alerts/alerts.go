package alerts

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ScopeGlobal names the aggregate scope in alert rules
const ScopeGlobal = "_global"

// Direction selects which side of the threshold triggers a rule
type Direction uint8

const (
	Above Direction = iota
	Below
)

// String returns the configuration name of the direction
func (d Direction) String() string {
	if d == Below {
		return "below"
	}
	return "above"
}

// ParseDirection resolves a direction from its configuration name.
// Unrecognized values default to Above.
func ParseDirection(s string) Direction {
	if s == "below" {
		return Below
	}
	return Above
}

// Severity represents the severity tier of an alert event
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is published to the sink when a rule fires
type Event struct {
	ID        string    `json:"id"`
	ScopeID   string    `json:"scope_id"`
	Metric    string    `json:"metric"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// Source resolves metric values by public name. An unknown name must
// resolve to zero, so a misconfigured rule silently never fires.
type Source interface {
	MetricValue(name string) float64
}

// Rule is a threshold rule with cooldown suppression state
type Rule struct {
	ScopeID       string
	Metric        string
	Threshold     float64
	Direction     Direction
	Cooldown      float64
	Remaining     float64
	LastTriggered time.Time
}

// Idle reports whether the rule is out of its cooldown window
func (r *Rule) Idle() bool {
	return r.Remaining <= 0
}

func (r *Rule) breached(value float64) bool {
	if r.Direction == Below {
		return value < r.Threshold
	}
	return value > r.Threshold
}

// severity grades how far the value overshoots the threshold
func (r *Rule) severity(value float64) Severity {
	var ratio float64
	if r.Direction == Below {
		if value <= 0 {
			return SeverityCritical
		}
		ratio = r.Threshold / value
	} else {
		if r.Threshold <= 0 {
			return SeverityCritical
		}
		ratio = value / r.Threshold
	}

	switch {
	case ratio >= 2:
		return SeverityCritical
	case ratio >= 1.5:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

type ruleKey struct {
	scope  string
	metric string
}

// Config represents registry configuration
type Config struct {
	Sink    Sink           // alert destination, NoOpSink when nil
	Breaker bool           // wrap the sink in a circuit breaker
	Logger  *logrus.Logger // discarded publish failures are logged here
}

// Registry holds threshold rules for one store and decides after each
// mutation whether an alert is emitted
type Registry struct {
	mu      sync.Mutex
	rules   map[ruleKey]*Rule
	sink    Sink
	log     *logrus.Logger
	dropped uint64
}

// NewRegistry creates an alert registry publishing to cfg.Sink
func NewRegistry(cfg *Config) *Registry {
	if cfg == nil {
		cfg = &Config{}
	}

	sink := cfg.Sink
	if sink == nil {
		sink = NoOpSink{}
	}
	if cfg.Breaker {
		sink = WrapBreaker(sink)
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Registry{
		rules: make(map[ruleKey]*Rule),
		sink:  sink,
		log:   log,
	}
}

// RegisterRule adds or replaces a threshold rule. Rules are independent
// of record lifecycle; a rule may name a scope no record exists for yet.
func (reg *Registry) RegisterRule(scopeID, metric string, threshold float64, dir Direction, cooldown float64) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.rules[ruleKey{scopeID, metric}] = &Rule{
		ScopeID:   scopeID,
		Metric:    metric,
		Threshold: threshold,
		Direction: dir,
		Cooldown:  cooldown,
	}
}

// RemoveRule removes a rule and returns whether it existed
func (reg *Registry) RemoveRule(scopeID, metric string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	key := ruleKey{scopeID, metric}
	if _, ok := reg.rules[key]; !ok {
		return false
	}
	delete(reg.rules, key)
	return true
}

// Rules returns a snapshot of all registered rules
func (reg *Registry) Rules() []Rule {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	out := make([]Rule, 0, len(reg.rules))
	for _, r := range reg.rules {
		out = append(out, *r)
	}
	return out
}

// Tick decays all cooldowns by the elapsed delta. Cooldown time only
// advances through explicit ticks, never through wall-clock polling.
func (reg *Registry) Tick(delta float64) {
	if delta <= 0 {
		return
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, r := range reg.rules {
		if r.Remaining > 0 {
			r.Remaining -= delta
			if r.Remaining < 0 {
				r.Remaining = 0
			}
		}
	}
}

// Evaluate checks all rules for the scope against the source and emits
// at most one alert per rule. Breaches during cooldown are evaluated
// but suppressed.
func (reg *Registry) Evaluate(scopeID string, src Source) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, r := range reg.rules {
		if r.ScopeID != scopeID {
			continue
		}

		value := src.MetricValue(r.Metric)
		if !r.breached(value) {
			continue
		}
		if !r.Idle() {
			continue
		}

		r.Remaining = r.Cooldown
		r.LastTriggered = time.Now()

		reg.publish(Event{
			ID:        uuid.NewString(),
			ScopeID:   scopeID,
			Metric:    r.Metric,
			Value:     value,
			Threshold: r.Threshold,
			Severity:  r.severity(value),
			Timestamp: r.LastTriggered,
		})
	}
}

// Dropped returns how many events failed to publish and were discarded
func (reg *Registry) Dropped() uint64 {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.dropped
}

// publish delivers the event synchronously on the mutating goroutine.
// Sink failures and panics stop at this boundary; the metrics path must
// never be affected by a misbehaving sink.
func (reg *Registry) publish(event Event) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.dropped++
			reg.log.WithField("scope", event.ScopeID).Warnf("alert sink panicked: %v", rec)
		}
	}()

	if err := reg.sink.Publish(event); err != nil {
		reg.dropped++
		reg.log.WithFields(logrus.Fields{
			"scope":  event.ScopeID,
			"metric": event.Metric,
		}).Warnf("alert publish failed: %v", err)
	}
}
