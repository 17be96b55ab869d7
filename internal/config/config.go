// Package config provides configuration structures and validation for the application.
// It handles environment-based configuration for the treasury state service, its seed
// sources, the Kafka integration and operational parameters.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Seed sources supported by the treasury service
const (
	SeedSourceFixtures = "fixtures"
	SeedSourcePostgres = "postgres"
	SeedSourceMongo    = "mongo"
)

// Transition policies for payment status changes
const (
	TransitionPolicyStrict     = "strict"
	TransitionPolicyPermissive = "permissive"
)

// Config holds the complete application configuration with settings for all components.
// Each field represents a major subsystem's configuration and is validated during
// application startup. Subsystems that are switched off are not validated.
type Config struct {
	Application    ApplicationConfig
	Logging        LoggingConfig
	Server         ServerConfig
	Treasury       TreasuryConfig
	Kafka          KafkaConfig
	Postgres       PostgresConfig
	MongoDB        MongoDBConfig
	Reporter       ReporterConfig
	WorkerPool     WorkerPoolConfig
	CircuitBreaker CircuitBreakerConfig
	Metrics        MetricsConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	SSEHeartbeat    time.Duration // Idle interval between keep-alive events on the change stream
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// TreasuryConfig contains the business parameters of the state store
type TreasuryConfig struct {
	SeedSource       string                     // fixtures, postgres or mongo
	HoldAmount       decimal.Decimal            // Subtracted from ledger balance on balance updates
	ActivityLogLimit int                        // Maximum number of retained activity entries
	ApproverEmail    string                     // Identity recorded as approvedBy
	ActorUserID      string                     // User id stamped on synthesized activities
	TransitionPolicy string                     // strict or permissive
	BaseCurrency     string                     // Currency the cash position is reported in
	FXRates          map[string]decimal.Decimal // Static multipliers into BaseCurrency
	SubscriberBuffer int                        // Buffered change notifications per subscriber
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Enabled           bool
	Brokers           string
	EventsTopic       string // Outbound change events and cash position snapshots
	BalanceFeedTopic  string // Inbound bank balance updates
	NumPartitions     int    // Number of partitions for topics
	ReplicationFactor int    // Replication factor for topics
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string // Topic for Dead Letter Queue
	PublishTimeout    time.Duration
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// ReporterConfig contains the cash position reporter configuration
type ReporterConfig struct {
	Enabled  bool
	Interval time.Duration
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of workers in the pool
}

// CircuitBreakerConfig guards outbound event publishing
type CircuitBreakerConfig struct {
	MaxRequests         uint32        // Requests allowed through while half-open
	Interval            time.Duration // Cyclic period for clearing counts while closed
	Timeout             time.Duration // Open state duration before probing again
	ConsecutiveFailures uint32        // Failures in a row that trip the breaker
}

// MetricsConfig contains Prometheus configuration
type MetricsConfig struct {
	Namespace string
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.SSEHeartbeat <= 0 {
		validationErrors = append(validationErrors, "SERVER_SSE_HEARTBEAT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate Treasury config
	switch c.Treasury.SeedSource {
	case SeedSourceFixtures, SeedSourcePostgres, SeedSourceMongo:
	default:
		validationErrors = append(validationErrors, "TREASURY_SEED_SOURCE must be one of fixtures, postgres, mongo")
	}
	if c.Treasury.HoldAmount.IsNegative() {
		validationErrors = append(validationErrors, "TREASURY_HOLD_AMOUNT must not be negative")
	}
	if c.Treasury.ActivityLogLimit <= 0 {
		validationErrors = append(validationErrors, "TREASURY_ACTIVITY_LOG_LIMIT must be greater than 0")
	}
	if c.Treasury.ApproverEmail == "" {
		validationErrors = append(validationErrors, "TREASURY_APPROVER_EMAIL is required")
	}
	if c.Treasury.ActorUserID == "" {
		validationErrors = append(validationErrors, "TREASURY_ACTOR_USER_ID is required")
	}
	switch c.Treasury.TransitionPolicy {
	case TransitionPolicyStrict, TransitionPolicyPermissive:
	default:
		validationErrors = append(validationErrors, "TREASURY_TRANSITION_POLICY must be strict or permissive")
	}
	if len(c.Treasury.BaseCurrency) != 3 {
		validationErrors = append(validationErrors, "TREASURY_BASE_CURRENCY must be a 3-letter code")
	}
	if c.Treasury.SubscriberBuffer <= 0 {
		validationErrors = append(validationErrors, "TREASURY_SUBSCRIBER_BUFFER must be greater than 0")
	}

	// Validate Kafka config
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
		}
		if c.Kafka.EventsTopic == "" {
			validationErrors = append(validationErrors, "KAFKA_EVENTS_TOPIC is required")
		}
		if c.Kafka.BalanceFeedTopic == "" {
			validationErrors = append(validationErrors, "KAFKA_BALANCE_FEED_TOPIC is required")
		}
		if c.Kafka.ConsumerGroup == "" {
			validationErrors = append(validationErrors, "KAFKA_CONSUMER_GROUP is required")
		}
		if c.Kafka.MinBytes <= 0 {
			validationErrors = append(validationErrors, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
		}
		if c.Kafka.MaxBytes <= 0 {
			validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
		}
		if c.Kafka.MaxWait <= 0 {
			validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
		}
		if c.Kafka.PublishTimeout <= 0 {
			validationErrors = append(validationErrors, "KAFKA_PUBLISH_TIMEOUT must be greater than 0")
		}
		if c.Kafka.DLQTopic == "" {
			validationErrors = append(validationErrors, "KAFKA_DLQ_TOPIC is required")
		}

		if c.WorkerPool.Size <= 0 {
			validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
		}
		if c.CircuitBreaker.ConsecutiveFailures == 0 {
			validationErrors = append(validationErrors, "CIRCUIT_BREAKER_CONSECUTIVE_FAILURES must be greater than 0")
		}
		if c.CircuitBreaker.Timeout <= 0 {
			validationErrors = append(validationErrors, "CIRCUIT_BREAKER_TIMEOUT must be greater than 0")
		}
		if c.Reporter.Enabled && c.Reporter.Interval <= 0 {
			validationErrors = append(validationErrors, "REPORTER_INTERVAL must be greater than 0")
		}
	}

	// Validate PostgreSQL config
	if c.Treasury.SeedSource == SeedSourcePostgres {
		if c.Postgres.URL == "" {
			validationErrors = append(validationErrors, "POSTGRES_URL is required")
		}
		if c.Postgres.MaxConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
		}
		if c.Postgres.MinConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
		}
		if c.Postgres.ConnMaxLifetime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
		}
		if c.Postgres.ConnMaxIdleTime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
		}
	}

	// Validate MongoDB config
	if c.Treasury.SeedSource == SeedSourceMongo {
		if c.MongoDB.URI == "" {
			validationErrors = append(validationErrors, "MONGO_URI is required")
		}
		if c.MongoDB.Database == "" {
			validationErrors = append(validationErrors, "MONGO_DATABASE is required")
		}
		if c.MongoDB.Timeout <= 0 {
			validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
		}
		if c.MongoDB.MaxPoolSize <= 0 {
			validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
		}
		if c.MongoDB.MaxConnIdleTime <= 0 {
			validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
		}
	}

	if c.Metrics.Namespace == "" {
		validationErrors = append(validationErrors, "METRICS_NAMESPACE is required")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
