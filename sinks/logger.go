package sinks

import (
	"github.com/sirupsen/logrus"

	"github.com/perfgauge/perfgauge/alerts"
)

// LoggerSink emits alert events as structured log entries
type LoggerSink struct {
	log *logrus.Logger
}

// NewLoggerSink creates a sink logging to the given logger, falling
// back to the standard logger when nil
func NewLoggerSink(log *logrus.Logger) *LoggerSink {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LoggerSink{log: log}
}

// Publish implements alerts.Sink
func (s *LoggerSink) Publish(event alerts.Event) error {
	entry := s.log.WithFields(logrus.Fields{
		"alert_id":  event.ID,
		"scope":     event.ScopeID,
		"metric":    event.Metric,
		"value":     event.Value,
		"threshold": event.Threshold,
		"severity":  event.Severity,
	})

	switch event.Severity {
	case alerts.SeverityCritical:
		entry.Error("alert threshold breached")
	case alerts.SeverityWarning:
		entry.Warn("alert threshold breached")
	default:
		entry.Info("alert threshold breached")
	}
	return nil
}
