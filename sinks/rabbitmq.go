package sinks

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/perfgauge/perfgauge/alerts"
)

// RabbitSink publishes alert events to a RabbitMQ exchange
type RabbitSink struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	exchange   string
	routingKey string
}

// NewRabbitSink dials url and declares a durable topic exchange
func NewRabbitSink(url, exchange, routingKey string) (*RabbitSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbit sink: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbit sink: open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbit sink: declare exchange: %w", err)
	}

	return &RabbitSink{
		conn:       conn,
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

// Publish implements alerts.Sink
func (s *RabbitSink) Publish(event alerts.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbit sink: marshal event: %w", err)
	}

	return s.ch.PublishWithContext(context.Background(), s.exchange, s.routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   event.ID,
		Timestamp:   event.Timestamp,
		Body:        payload,
	})
}

// Close closes the channel and connection
func (s *RabbitSink) Close() error {
	if err := s.ch.Close(); err != nil {
		_ = s.conn.Close()
		return err
	}
	return s.conn.Close()
}
