package alerts

import (
	"github.com/sony/gobreaker"
)

// Sink receives alert events. Implementations must be cheap or hand
// off asynchronously themselves; the registry does not buffer or retry.
type Sink interface {
	Publish(event Event) error
}

// NoOpSink discards all events
type NoOpSink struct{}

// Publish implements Sink
func (NoOpSink) Publish(Event) error { return nil }

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(event Event) error

// Publish implements Sink
func (f SinkFunc) Publish(event Event) error { return f(event) }

// breakerSink trips open after consecutive publish failures so a dead
// transport is skipped instead of slowing down every mutation
type breakerSink struct {
	sink Sink
	cb   *gobreaker.CircuitBreaker
}

// WrapBreaker wraps a sink in a circuit breaker
func WrapBreaker(sink Sink) Sink {
	return &breakerSink{
		sink: sink,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "alert-sink",
		}),
	}
}

// Publish implements Sink
func (b *breakerSink) Publish(event Event) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.sink.Publish(event)
	})
	return err
}
