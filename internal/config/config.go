// Package config loads and validates the environment-driven configuration
// shared by the API gateway and the transfer processor binaries.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config is the full configuration tree. Both binaries load the same shape;
// the gateway ignores the processor-only sections and vice versa.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Outbox      OutboxConfig
	WorkerPool  WorkerPoolConfig
}

// ApplicationConfig identifies the running binary and environment
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig controls the slog level
type LoggingConfig struct {
	Level string
}

// ServerConfig holds the gateway HTTP server settings
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration // grace period before in-flight requests are dropped
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// KafkaConfig covers the transfer request topic, the consumer group and the
// dead letter topic for poison messages.
type KafkaConfig struct {
	Brokers           string
	TransferTopic     string
	NumPartitions     int
	ReplicationFactor int
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string
}

// PostgresConfig holds the pgx pool settings for the accounts database
type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

// MongoDBConfig holds the transfer history store settings
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// OutboxConfig tunes the poller that moves committed transfers into history
type OutboxConfig struct {
	PollingInterval  time.Duration
	BatchSize        int
	MaxRetryAttempts int
}

// WorkerPoolConfig caps concurrent transfer processing
type WorkerPoolConfig struct {
	Size int
}

// validate checks every section and reports all violations at once, so a
// misconfigured deployment fails with the complete list instead of one
// error per restart.
func (c *Config) validate() error {
	var problems []string

	requirePositive := func(name string, ok bool) {
		if !ok {
			problems = append(problems, name+" must be greater than 0")
		}
	}
	require := func(name string, ok bool) {
		if !ok {
			problems = append(problems, name+" is required")
		}
	}

	requirePositive("SERVER_PORT", c.Server.Port > 0)
	requirePositive("SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout > 0)
	requirePositive("SERVER_READ_TIMEOUT", c.Server.ReadTimeout > 0)
	requirePositive("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout > 0)
	requirePositive("SERVER_IDLE_TIMEOUT", c.Server.IdleTimeout > 0)

	require("KAFKA_BROKERS", len(c.Kafka.Brokers) > 0)
	require("KAFKA_TRANSFER_TOPIC", c.Kafka.TransferTopic != "")
	require("KAFKA_CONSUMER_GROUP", c.Kafka.ConsumerGroup != "")
	requirePositive("KAFKA_CONSUMER_MIN_BYTES", c.Kafka.MinBytes > 0)
	requirePositive("KAFKA_CONSUMER_MAX_BYTES", c.Kafka.MaxBytes > 0)
	requirePositive("KAFKA_CONSUMER_MAX_WAIT", c.Kafka.MaxWait > 0)
	require("KAFKA_DLQ_TOPIC", c.Kafka.DLQTopic != "")

	require("POSTGRES_URL", c.Postgres.URL != "")
	requirePositive("POSTGRES_MAX_CONNS", c.Postgres.MaxConns > 0)
	requirePositive("POSTGRES_MIN_CONNS", c.Postgres.MinConns > 0)
	requirePositive("POSTGRES_MAX_CONN_LIFETIME", c.Postgres.ConnMaxLifetime > 0)
	requirePositive("POSTGRES_MAX_CONN_IDLE_TIME", c.Postgres.ConnMaxIdleTime > 0)

	require("MONGO_URI", c.MongoDB.URI != "")
	require("MONGO_DATABASE", c.MongoDB.Database != "")
	requirePositive("MONGO_TIMEOUT", c.MongoDB.Timeout > 0)
	requirePositive("MONGO_MAX_POOL_SIZE", c.MongoDB.MaxPoolSize > 0)
	requirePositive("MONGO_MIN_POOL_SIZE", c.MongoDB.MinPoolSize > 0)
	requirePositive("MONGO_MAX_CONN_IDLE_TIME", c.MongoDB.MaxConnIdleTime > 0)

	requirePositive("OUTBOX_POLLING_INTERVAL", c.Outbox.PollingInterval > 0)
	requirePositive("OUTBOX_BATCH_SIZE", c.Outbox.BatchSize > 0)
	requirePositive("OUTBOX_MAX_RETRY_ATTEMPTS", c.Outbox.MaxRetryAttempts > 0)

	requirePositive("WORKER_POOL_SIZE", c.WorkerPool.Size > 0)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, ", "))
	}
	return nil
}
