package config

import (
	"github.com/spf13/viper"
)

func getEngineConfig(v *viper.Viper) *Engine {
	return &Engine{
		Name:  v.GetString("engine.name"),
		Kind:  v.GetString("engine.kind"),
		Debug: v.GetBool("engine.debug"),
	}
}

func getLoggerConfig(v *viper.Viper) *Logger {
	return &Logger{
		Level:      v.GetString("logger.level"),
		Format:     v.GetString("logger.format"),
		Output:     v.GetString("logger.output"),
		OutputFile: v.GetString("logger.output_file"),
	}
}

func getAlertsConfig(v *viper.Viper) *Alerts {
	cfg := &Alerts{
		Breaker: v.GetBool("alerts.breaker"),
	}

	var rules []Rule
	if err := v.UnmarshalKey("alerts.rules", &rules); err == nil {
		cfg.Rules = rules
	}

	return cfg
}

func getSinksConfig(v *viper.Viper) *Sinks {
	cfg := &Sinks{
		Logger: v.GetBool("sinks.logger"),
	}

	if v.IsSet("sinks.redis.addr") {
		cfg.Redis = &RedisSink{
			Addr:     v.GetString("sinks.redis.addr"),
			Password: v.GetString("sinks.redis.password"),
			DB:       v.GetInt("sinks.redis.db"),
			Channel:  v.GetString("sinks.redis.channel"),
		}
	}

	if v.IsSet("sinks.kafka.brokers") {
		cfg.Kafka = &KafkaSink{
			Brokers: v.GetStringSlice("sinks.kafka.brokers"),
			Topic:   v.GetString("sinks.kafka.topic"),
		}
	}

	if v.IsSet("sinks.rabbitmq.url") {
		cfg.RabbitMQ = &RabbitSink{
			URL:        v.GetString("sinks.rabbitmq.url"),
			Exchange:   v.GetString("sinks.rabbitmq.exchange"),
			RoutingKey: v.GetString("sinks.rabbitmq.routing_key"),
		}
	}

	if v.IsSet("sinks.sentry.dsn") {
		cfg.Sentry = &SentrySink{
			Dsn:         v.GetString("sinks.sentry.dsn"),
			Environment: v.GetString("sinks.sentry.environment"),
			Release:     v.GetString("sinks.sentry.release"),
		}
	}

	return cfg
}

func getExportConfig(v *viper.Viper) *Export {
	cfg := &Export{
		Enabled:  v.GetBool("export.enabled"),
		Interval: v.GetDuration("export.interval"),
	}

	if v.IsSet("export.redis.addr") {
		cfg.Redis = &RedisExport{
			Addr:      v.GetString("export.redis.addr"),
			Password:  v.GetString("export.redis.password"),
			DB:        v.GetInt("export.redis.db"),
			KeyPrefix: v.GetString("export.redis.key_prefix"),
			Retention: v.GetDuration("export.redis.retention"),
		}
	}

	return cfg
}
