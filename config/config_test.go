package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `
app_name: perfgauge-test

engine:
  name: runtime
  kind: pool
  debug: true

logger:
  level: debug
  format: json
  output: stdout

alerts:
  breaker: true
  rules:
    - scope: _global
      metric: usage_ratio
      threshold: 0.8
      direction: above
      cooldown: 5
    - scope: cache-main
      metric: cache_hit_ratio
      threshold: 0.5
      direction: below
      cooldown: 10

sinks:
  logger: true
  redis:
    addr: localhost:6379
    channel: alerts
  kafka:
    brokers:
      - broker-1:9092
      - broker-2:9092
    topic: perfgauge-alerts

export:
  enabled: true
  interval: 15s
  redis:
    addr: localhost:6379
    key_prefix: pg
    retention: 24h
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AppName != "perfgauge-test" {
		t.Errorf("AppName = %q", cfg.AppName)
	}
	if cfg.Engine.Name != "runtime" || cfg.Engine.Kind != "pool" || !cfg.Engine.Debug {
		t.Errorf("unexpected engine config: %+v", cfg.Engine)
	}
	if cfg.Logger.Level != "debug" || cfg.Logger.Format != "json" {
		t.Errorf("unexpected logger config: %+v", cfg.Logger)
	}
}

func TestLoadAlertRules(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Alerts.Breaker {
		t.Error("breaker not enabled")
	}
	if len(cfg.Alerts.Rules) != 2 {
		t.Fatalf("rules = %d, want 2", len(cfg.Alerts.Rules))
	}

	first := cfg.Alerts.Rules[0]
	if first.Scope != "_global" || first.Metric != "usage_ratio" {
		t.Errorf("unexpected rule identity: %+v", first)
	}
	if first.Threshold != 0.8 || first.Direction != "above" || first.Cooldown != 5 {
		t.Errorf("unexpected rule values: %+v", first)
	}

	second := cfg.Alerts.Rules[1]
	if second.Direction != "below" || second.Cooldown != 10 {
		t.Errorf("unexpected rule values: %+v", second)
	}
}

func TestLoadSinks(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Sinks.Logger {
		t.Error("logger sink not enabled")
	}
	if cfg.Sinks.Redis == nil || cfg.Sinks.Redis.Addr != "localhost:6379" || cfg.Sinks.Redis.Channel != "alerts" {
		t.Errorf("unexpected redis sink: %+v", cfg.Sinks.Redis)
	}
	if cfg.Sinks.Kafka == nil || len(cfg.Sinks.Kafka.Brokers) != 2 || cfg.Sinks.Kafka.Topic != "perfgauge-alerts" {
		t.Errorf("unexpected kafka sink: %+v", cfg.Sinks.Kafka)
	}
	if cfg.Sinks.RabbitMQ != nil {
		t.Error("rabbitmq sink configured without a url")
	}
	if cfg.Sinks.Sentry != nil {
		t.Error("sentry sink configured without a dsn")
	}
}

func TestLoadExport(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Export.Enabled {
		t.Error("export not enabled")
	}
	if cfg.Export.Interval != 15*time.Second {
		t.Errorf("interval = %v, want 15s", cfg.Export.Interval)
	}
	if cfg.Export.Redis == nil || cfg.Export.Redis.KeyPrefix != "pg" || cfg.Export.Redis.Retention != 24*time.Hour {
		t.Errorf("unexpected export redis: %+v", cfg.Export.Redis)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestReload(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	updated := "app_name: renamed\n"
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	cfg2, err := cfg.Reload()
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if cfg2.AppName != "renamed" {
		t.Errorf("AppName after reload = %q, want renamed", cfg2.AppName)
	}
}
