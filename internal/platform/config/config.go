package config

import (
	"os"
	"strconv"
	"time"

	pstrings "fraudscreen/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr string
	// MaxBodyBytes caps the analyze request body.
	MaxBodyBytes int64
	// MaxBatchRecords caps the number of records in one batch; 0 disables the cap.
	MaxBatchRecords int
	// RulesFile optionally overrides detection thresholds (YAML).
	RulesFile string
	// AuthSigningKey enables bearer-token auth on /api routes when set.
	AuthSigningKey string
	AuthIssuer     string
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string
	ShutdownGrace  time.Duration

	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
}

// RedisConfig configures the optional result cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// ResultTTL is how long a screened batch stays cached.
	ResultTTL time.Duration
}

// PostgresConfig configures the optional report archive.
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// KafkaConfig configures the optional audit event sink.
type KafkaConfig struct {
	Brokers     []string
	AuditTopic  string
	Partitions  int32
	Replication int16
}

const defaultMaxBodyBytes = 50 << 20

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:            envOr("FRAUDSCREEN_ADDR", ":3001"),
		MaxBodyBytes:    int64(envInt("FRAUDSCREEN_MAX_BODY_BYTES", defaultMaxBodyBytes)),
		MaxBatchRecords: envInt("FRAUDSCREEN_MAX_BATCH_RECORDS", 100000),
		RulesFile:       os.Getenv("FRAUDSCREEN_RULES_FILE"),
		AuthSigningKey:  os.Getenv("FRAUDSCREEN_AUTH_SIGNING_KEY"),
		AuthIssuer:      envOr("FRAUDSCREEN_AUTH_ISSUER", "fraudscreen"),
		AllowedOrigins:  envList("FRAUDSCREEN_ALLOWED_ORIGINS", []string{"*"}),
		LogLevel:        envOr("FRAUDSCREEN_LOG_LEVEL", "info"),
		LogFormat:       envOr("FRAUDSCREEN_LOG_FORMAT", "json"),
		ShutdownGrace:   envDuration("FRAUDSCREEN_SHUTDOWN_GRACE", 10*time.Second),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			ResultTTL:    envDuration("REDIS_RESULT_TTL", 15*time.Minute),
		},
		Postgres: PostgresConfig{
			DSN:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Kafka: KafkaConfig{
			Brokers:     envList("KAFKA_BROKERS", nil),
			AuditTopic:  envOr("KAFKA_AUDIT_TOPIC", "fraudscreen.audit"),
			Partitions:  int32(envInt("KAFKA_AUDIT_PARTITIONS", 3)),
			Replication: int16(envInt("KAFKA_AUDIT_REPLICATION", 1)),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// envList reads a comma separated list, dropping blanks and repeats.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return pstrings.SplitList(v)
}
