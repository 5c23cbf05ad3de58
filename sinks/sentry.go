package sinks

import (
	"fmt"

	"github.com/getsentry/sentry-go"

	"github.com/perfgauge/perfgauge/alerts"
)

// SentrySink forwards warning and critical alerts to Sentry.
// Info-level alerts are dropped; Sentry is for incidents, not telemetry.
type SentrySink struct {
	hub *sentry.Hub
}

// SentryOptions configures the Sentry sink
type SentryOptions struct {
	Dsn         string
	Environment string
	Release     string
}

// NewSentrySink initializes a dedicated Sentry client for alert capture
func NewSentrySink(opt *SentryOptions) (*SentrySink, error) {
	if opt == nil || opt.Dsn == "" {
		return nil, fmt.Errorf("sentry sink: dsn is required")
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         opt.Dsn,
		Environment: opt.Environment,
		Release:     opt.Release,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry sink: init client: %w", err)
	}

	return &SentrySink{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// Publish implements alerts.Sink
func (s *SentrySink) Publish(event alerts.Event) error {
	var level sentry.Level
	switch event.Severity {
	case alerts.SeverityCritical:
		level = sentry.LevelError
	case alerts.SeverityWarning:
		level = sentry.LevelWarning
	default:
		return nil
	}

	se := sentry.NewEvent()
	se.Level = level
	se.Message = fmt.Sprintf("%s: %s breached threshold (value=%.4f threshold=%.4f)",
		event.ScopeID, event.Metric, event.Value, event.Threshold)
	se.Tags = map[string]string{
		"scope":    event.ScopeID,
		"metric":   event.Metric,
		"severity": string(event.Severity),
	}
	se.Extra = map[string]any{
		"alert_id":  event.ID,
		"value":     event.Value,
		"threshold": event.Threshold,
	}
	se.Timestamp = event.Timestamp

	s.hub.CaptureEvent(se)
	return nil
}
