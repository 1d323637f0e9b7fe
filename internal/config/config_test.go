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
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("TRUSTED_PROXIES", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("AUTO_MIGRATE", "")
	t.Setenv("ES_INDEX", "")
	t.Setenv("LOGIN_RATE_LIMIT", "")
	t.Setenv("LOGIN_RATE_WINDOW", "")

	cfg := Load()

	assert.Equal(t, "product-service", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Empty(t, cfg.TrustedProxies)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "products", cfg.ESIndex)
	assert.Equal(t, 10, cfg.LoginRateLimit)
	assert.Equal(t, time.Minute, cfg.LoginRateWindow)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.1/32")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, []byte("secret"), cfg.JWTSecret)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1/32"}, cfg.TrustedProxies)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestEnvDurationDefault_RejectsNonPositive(t *testing.T) {
	t.Setenv("X_DUR", "-5s")
	assert.Equal(t, time.Second, EnvDurationDefault("X_DUR", time.Second))

	t.Setenv("X_DUR", "garbage")
	assert.Equal(t, time.Second, EnvDurationDefault("X_DUR", time.Second))
}
