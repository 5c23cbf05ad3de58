package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/perfgauge/perfgauge/alerts"
	"github.com/perfgauge/perfgauge/config"
	"github.com/perfgauge/perfgauge/export"
	"github.com/perfgauge/perfgauge/logger"
	"github.com/perfgauge/perfgauge/sinks"
	"github.com/perfgauge/perfgauge/stats"
)

// NewDemoCommand creates the demo command: it wires a store from
// configuration, simulates pool and task traffic through both the
// inline and deferred paths, and prints the resulting snapshots.
func NewDemoCommand() *cobra.Command {
	var (
		configPath string
		duration   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a self-instrumented workload and print snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(configPath, duration)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path")
	cmd.Flags().DurationVarP(&duration, "duration", "d", 3*time.Second, "how long to run the workload")

	return cmd
}

func runDemo(configPath string, duration time.Duration) error {
	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg = &config.Config{
			Engine: &config.Engine{Name: "demo", Kind: "pool"},
			Logger: &config.Logger{Level: "info", Format: "text"},
			Alerts: &config.Alerts{},
			Sinks:  &config.Sinks{Logger: true},
			Export: &config.Export{},
		}
	}

	log, cleanup, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer cleanup()

	sink, err := buildSink(cfg.Sinks, log)
	if err != nil {
		return err
	}

	store, err := stats.New(&stats.Config{
		Name:    cfg.Engine.Name,
		Kind:    cfg.Engine.Kind,
		Debug:   cfg.Engine.Debug,
		Sink:    sink,
		Breaker: cfg.Alerts.Breaker,
		Logger:  log,
	})
	if err != nil {
		return err
	}

	for _, r := range cfg.Alerts.Rules {
		store.Alerts().RegisterRule(r.Scope, r.Metric, r.Threshold, alerts.ParseDirection(r.Direction), r.Cooldown)
	}
	if len(cfg.Alerts.Rules) == 0 {
		store.Alerts().RegisterRule(alerts.ScopeGlobal, "usage_ratio", 0.8, alerts.Above, 5)
	}

	var exporter *export.Exporter
	if cfg.Export != nil && cfg.Export.Enabled {
		storage, err := buildExportStorage(cfg.Export)
		if err != nil {
			return err
		}
		exporter, err = export.NewExporter(store, storage, &export.Config{
			Interval: cfg.Export.Interval,
			Logger:   log,
		})
		if err != nil {
			return err
		}
		exporter.Start(context.Background())
	}

	simulate(store, duration)

	if exporter != nil {
		exporter.Stop()
	}

	global := store.GetGlobalRecord()
	out, err := json.MarshalIndent(global.Flatten(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	log.WithField("dropped_alerts", store.Alerts().Dropped()).Info("demo finished")
	return store.Close()
}

// simulate drives pool traffic inline and task traffic through the
// deferred path
func simulate(store *stats.Store, duration time.Duration) {
	deadline := time.Now().Add(duration)
	pool := store.Pool()

	var last *stats.Completion
	active := int64(0)

	for time.Now().Before(deadline) {
		active = rand.Int63n(10)
		_ = pool.RecordAcquire("demo-pool", active, float64(rand.Intn(5)+1))
		_ = pool.RecordRelease("demo-pool", active-1, 1, float64(rand.Intn(60)))

		last = store.Submit(stats.Mutation{
			ID:   "demo-worker",
			Kind: stats.EventStart,
			Op:   stats.Operands{ActiveCount: active, DurationMs: 2},
		})
		last = store.Submit(stats.Mutation{
			ID:   "demo-worker",
			Kind: stats.EventComplete,
			Op:   stats.Operands{ActiveCount: active - 1, DurationMs: 4, LifetimeSec: 1},
		})

		store.Alerts().Tick(0.01)
		time.Sleep(10 * time.Millisecond)
	}

	if last != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = last.Wait(ctx)
	}
}

func buildSink(cfg *config.Sinks, log *logrus.Logger) (alerts.Sink, error) {
	if cfg == nil {
		return sinks.NewLoggerSink(log), nil
	}

	var all []alerts.Sink
	if cfg.Logger {
		all = append(all, sinks.NewLoggerSink(log))
	}

	if cfg.Redis != nil {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		all = append(all, sinks.NewRedisSink(client, cfg.Redis.Channel))
	}

	if cfg.Kafka != nil {
		all = append(all, sinks.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic))
	}

	if cfg.RabbitMQ != nil {
		sink, err := sinks.NewRabbitSink(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey)
		if err != nil {
			return nil, err
		}
		all = append(all, sink)
	}

	if cfg.Sentry != nil {
		sink, err := sinks.NewSentrySink(&sinks.SentryOptions{
			Dsn:         cfg.Sentry.Dsn,
			Environment: cfg.Sentry.Environment,
			Release:     cfg.Sentry.Release,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, sink)
	}

	switch len(all) {
	case 0:
		return sinks.NewLoggerSink(log), nil
	case 1:
		return all[0], nil
	default:
		return sinks.NewMultiSink(all...), nil
	}
}

func buildExportStorage(cfg *config.Export) (export.Storage, error) {
	if cfg.Redis == nil {
		return export.NewMemoryStorage(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return export.NewRedisStorage(client, cfg.Redis.KeyPrefix, cfg.Redis.Retention), nil
}
