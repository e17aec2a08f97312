package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, 5, cfg.FlashMatch.DefaultRounds)
	assert.Equal(t, 20, cfg.FlashMatch.DefaultRoundSeconds)
	assert.InDelta(t, 80.0, cfg.FlashMatch.CorrectThreshold, 0.001)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("FLASHMATCH_DEFAULT_ROUNDS", "8")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("TRACING_SAMPLE_RATIO", "0.25")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()

	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.Origins)
	assert.Equal(t, 8, cfg.FlashMatch.DefaultRounds)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.InDelta(t, 0.25, cfg.Tracing.SampleRatio, 0.0001)
	assert.True(t, cfg.MinIO.UseSSL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "forever")
	t.Setenv("FLASHMATCH_DEFAULT_ROUNDS", "many")
	t.Setenv("RATE_LIMIT_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, 5, cfg.FlashMatch.DefaultRounds)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestDBConfig_URLs(t *testing.T) {
	db := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable", TimeZone: "UTC"}

	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", db.URL())
	assert.Contains(t, db.DSN(), "dbname=n")
	assert.Contains(t, db.DSN(), "TimeZone=UTC")
}
