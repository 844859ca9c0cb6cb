package cfg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_PORT", "GRPC_PORT", "DB_HOST", "DB_PORT", "DB_SSLMODE",
		"DB_MAX_OPEN_CONNS", "CACHE_TTL", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"AUTO_MIGRATE", "MAX_BODY_BYTES", "REDIS_ADDR", "KAFKA_GROUP_ID",
		"RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW",
	} {
		t.Setenv(key, "")
	}

	conf := LoadConfig()

	assert.Equal(t, "8000", conf.HTTPPort)
	assert.Equal(t, "9095", conf.GRPCPort)
	assert.Equal(t, "localhost", conf.DBHost)
	assert.Equal(t, 20, conf.DBMaxOpenConns)
	assert.Equal(t, 5*time.Minute, conf.CacheTTL)
	assert.Equal(t, "maintenance.task-events", conf.KafkaTopic)
	assert.Empty(t, conf.KafkaBrokers)
	assert.Empty(t, conf.RedisAddr)
	assert.True(t, conf.AutoMigrate)
	assert.Equal(t, int64(1<<20), conf.MaxBodyBytes)
	assert.Equal(t, "maintenance-notify", conf.KafkaGroupID)
	assert.Zero(t, conf.RateLimitRequests)
	assert.Equal(t, time.Minute, conf.RateLimitWindow)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092 ")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("AUTO_MIGRATE", "false")

	conf := LoadConfig()

	assert.Equal(t, "9000", conf.HTTPPort)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, conf.KafkaBrokers)
	assert.Equal(t, 30*time.Second, conf.CacheTTL)
	assert.Equal(t, 20, conf.DBMaxOpenConns, "invalid numbers fall back to the default")
	assert.False(t, conf.AutoMigrate)
}

func TestDSN(t *testing.T) {
	conf := Config{
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "plant",
		DBPassword: "secret",
		DBName:     "mechanical",
		DBSSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5432 user=plant password=secret dbname=mechanical sslmode=disable", conf.DSN())
}
