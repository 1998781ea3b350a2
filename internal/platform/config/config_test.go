package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"FRAUDSCREEN_ADDR", "FRAUDSCREEN_MAX_BATCH_RECORDS", "KAFKA_BROKERS", "REDIS_URL"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":3001", cfg.Addr)
	assert.Equal(t, int64(50<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 100000, cfg.MaxBatchRecords)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 15*time.Minute, cfg.Redis.ResultTTL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("FRAUDSCREEN_ADDR", ":9000")
	t.Setenv("FRAUDSCREEN_MAX_BATCH_RECORDS", "500")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,,kafka-1:9092")
	t.Setenv("REDIS_RESULT_TTL", "2m")
	t.Setenv("FRAUDSCREEN_SHUTDOWN_GRACE", "not-a-duration")

	cfg := FromEnv()
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 500, cfg.MaxBatchRecords)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Minute, cfg.Redis.ResultTTL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownGrace, "invalid duration falls back")
}

func TestEnvIntFallback(t *testing.T) {
	t.Setenv("FRAUDSCREEN_MAX_BODY_BYTES", "lots")
	assert.Equal(t, int64(50<<20), FromEnv().MaxBodyBytes)
}
