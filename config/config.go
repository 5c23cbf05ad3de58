package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the configuration implementation
type Config struct {
	AppName string
	Engine  *Engine
	Logger  *Logger
	Alerts  *Alerts
	Sinks   *Sinks
	Export  *Export
	Viper   *viper.Viper
}

// Engine configures the metrics store
type Engine struct {
	Name  string
	Kind  string
	Debug bool
}

// Logger configures log output
type Logger struct {
	Level      string
	Format     string // json / text
	Output     string // stdout / stderr / file
	OutputFile string
}

// Rule is a declarative alert rule
type Rule struct {
	Scope     string
	Metric    string
	Threshold float64
	Direction string // above / below
	Cooldown  float64
}

// Alerts configures the alert registry
type Alerts struct {
	Breaker bool
	Rules   []Rule
}

// Sinks configures the alert destinations
type Sinks struct {
	Logger   bool
	Redis    *RedisSink
	Kafka    *KafkaSink
	RabbitMQ *RabbitSink
	Sentry   *SentrySink
}

// RedisSink configures the Redis pub/sub destination
type RedisSink struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// KafkaSink configures the Kafka destination
type KafkaSink struct {
	Brokers []string
	Topic   string
}

// RabbitSink configures the RabbitMQ destination
type RabbitSink struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// SentrySink configures the Sentry destination
type SentrySink struct {
	Dsn         string
	Environment string
	Release     string
}

// Export configures periodic snapshot export
type Export struct {
	Enabled  bool
	Interval time.Duration
	Redis    *RedisExport
}

// RedisExport configures Redis-backed snapshot storage
type RedisExport struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	Retention time.Duration
}

// Load loads the configuration from the file. An empty path searches
// the usual locations.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		ex, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		v.SetConfigName("config")
		v.AddConfigPath("/etc/perfgauge")
		v.AddConfigPath("$HOME/.perfgauge")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Dir(ex))
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppName: v.GetString("app_name"),
		Engine:  getEngineConfig(v),
		Logger:  getLoggerConfig(v),
		Alerts:  getAlertsConfig(v),
		Sinks:   getSinksConfig(v),
		Export:  getExportConfig(v),
		Viper:   v,
	}
}

// Reload re-reads the configuration from the same source
func (c *Config) Reload() (*Config, error) {
	if err := c.Viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to reload config: %w", err)
	}
	return fromViper(c.Viper), nil
}

// Watch watches the configuration file and invokes the callback with
// the reloaded configuration when it changes
func (c *Config) Watch(callback func(*Config)) {
	c.Viper.WatchConfig()
	c.Viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := c.Reload()
		if err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
			return
		}
		callback(cfg)
	})
}
