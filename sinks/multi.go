package sinks

import (
	"errors"

	"github.com/perfgauge/perfgauge/alerts"
)

// MultiSink fans one event out to several sinks. Every sink sees the
// event even when an earlier one fails; errors are joined.
type MultiSink struct {
	sinks []alerts.Sink
}

// NewMultiSink combines sinks into one
func NewMultiSink(sinks ...alerts.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Publish implements alerts.Sink
func (m *MultiSink) Publish(event alerts.Event) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Publish(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
