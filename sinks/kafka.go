package sinks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/perfgauge/perfgauge/alerts"
)

// KafkaSink publishes alert events to a Kafka topic, keyed by scope so
// alerts for one entity stay ordered within a partition
type KafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink creates a Kafka sink writing to topic via brokers
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

// Publish implements alerts.Sink
func (s *KafkaSink) Publish(event alerts.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka sink: marshal event: %w", err)
	}

	return s.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(event.ScopeID),
		Value: payload,
		Time:  event.Timestamp,
	})
}

// Close closes the underlying writer
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
