package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 50.0, cfg.Server.RateLimitRPS)
	assert.Equal(t, 100, cfg.Server.RateLimitBurst)

	assert.Equal(t, "https://api.cohere.ai", cfg.Cohere.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Cohere.Timeout)
	assert.Equal(t, "rerank-multilingual-v3.0", cfg.Cohere.DefaultModel)

	assert.Equal(t, CredentialBackendMemory, cfg.Credentials.Backend)
	assert.Equal(t, "credential:", cfg.Credentials.RedisKeyPrefix)
	assert.True(t, cfg.Credentials.AutoMigrate)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"stderr"}, cfg.Log.OutputPaths)

	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 0.1, cfg.Telemetry.SampleRate)

	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "agentflow", cfg.Metrics.Namespace)
	assert.Empty(t, cfg.Metrics.ListenAddr)
}

func TestDefaultConfig_IsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestDefaultConfig_Independent(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	a.Log.OutputPaths[0] = "changed"
	assert.Equal(t, "stderr", b.Log.OutputPaths[0])
}
