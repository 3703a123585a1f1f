package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, CSV(" kafka:9092, ,kafka2:9092 "))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("MAX_PAGE_SIZE", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("ORDER_RESERVE_STOCK", "")
	t.Setenv("ES_INDEX", "")

	cfg := Load()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 20, cfg.MaxPageSize)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.ReserveOrderStock)
	assert.Equal(t, "products", cfg.ESIndex)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("ORDER_RESERVE_STOCK", "true")
	t.Setenv("KAFKA_BROKERS", "a:1,b:2")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.True(t, cfg.ReserveOrderStock)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.KafkaBrokers)
	assert.Equal(t, []byte("s3cret"), cfg.JWTSecret)
}

func TestEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "-5s")

	assert.Equal(t, 7, EnvIntDefault("X_INT", 7))
	assert.True(t, EnvBoolDefault("X_BOOL", true))
	assert.Equal(t, time.Second, EnvDurationDefault("X_DUR", time.Second))
}
