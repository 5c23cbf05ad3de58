package sinks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/perfgauge/perfgauge/alerts"
)

// RedisSink publishes alert events as JSON to a Redis channel
type RedisSink struct {
	client  *redis.Client
	channel string
}

// NewRedisSink creates a Redis pub/sub sink. The client is managed by
// the caller.
func NewRedisSink(client *redis.Client, channel string) *RedisSink {
	if channel == "" {
		channel = "perfgauge:alerts"
	}
	return &RedisSink{client: client, channel: channel}
}

// Publish implements alerts.Sink
func (s *RedisSink) Publish(event alerts.Event) error {
	if s.client == nil {
		return fmt.Errorf("redis sink: client is nil")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis sink: marshal event: %w", err)
	}

	return s.client.Publish(context.Background(), s.channel, payload).Err()
}
