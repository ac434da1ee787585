// 配置加载器与默认配置测试。
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reranknode.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// --- Loader 测试 ---

func TestLoader_LoadDefaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://api.cohere.ai", cfg.Cohere.BaseURL)
	assert.Equal(t, CredentialBackendMemory, cfg.Credentials.Backend)
}

func TestLoader_LoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
cohere:
  base_url: "http://cohere.internal"
  timeout: 5s
  default_model: "rerank-english-v3.0"

credentials:
  backend: redis
  redis_key_prefix: "creds:"

redis:
  addr: "redis.example.com:6379"
  password: "secret"
  db: 1

log:
  level: "debug"
  format: "console"
`)

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "http://cohere.internal", cfg.Cohere.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Cohere.Timeout)
	assert.Equal(t, "rerank-english-v3.0", cfg.Cohere.DefaultModel)

	assert.Equal(t, CredentialBackendRedis, cfg.Credentials.Backend)
	assert.Equal(t, "creds:", cfg.Credentials.RedisKeyPrefix)

	assert.Equal(t, "redis.example.com:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	// 未出现在 YAML 中的字段保留默认值
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, "agentflow", cfg.Metrics.Namespace)
}

func TestLoader_LoadFromEnv(t *testing.T) {
	t.Setenv("RERANKNODE_COHERE_BASE_URL", "http://env-cohere")
	t.Setenv("RERANKNODE_COHERE_TIMEOUT", "2s")
	t.Setenv("RERANKNODE_CREDENTIALS_BACKEND", "database")
	t.Setenv("RERANKNODE_DATABASE_DRIVER", "postgres")
	t.Setenv("RERANKNODE_DATABASE_PORT", "6543")
	t.Setenv("RERANKNODE_TELEMETRY_ENABLED", "true")
	t.Setenv("RERANKNODE_TELEMETRY_SAMPLE_RATE", "0.5")
	t.Setenv("RERANKNODE_LOG_OUTPUT_PATHS", "stdout, /tmp/node.log")
	t.Setenv("RERANKNODE_SERVER_ADDR", "127.0.0.1:9090")
	t.Setenv("RERANKNODE_SERVER_RATE_LIMIT_RPS", "2.5")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "http://env-cohere", cfg.Cohere.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Cohere.Timeout)
	assert.Equal(t, CredentialBackendDatabase, cfg.Credentials.Backend)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 0.5, cfg.Telemetry.SampleRate)
	assert.Equal(t, []string{"stdout", "/tmp/node.log"}, cfg.Log.OutputPaths)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 2.5, cfg.Server.RateLimitRPS)
}

func TestLoader_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
cohere:
  base_url: "http://yaml-cohere"
  default_model: "rerank-english-v2.0"
`)
	t.Setenv("RERANKNODE_COHERE_BASE_URL", "http://env-cohere")

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "http://env-cohere", cfg.Cohere.BaseURL)
	assert.Equal(t, "rerank-english-v2.0", cfg.Cohere.DefaultModel)
}

func TestLoader_CustomEnvPrefix(t *testing.T) {
	t.Setenv("MYNODE_COHERE_DEFAULT_MODEL", "rerank-multilingual-v2.0")

	cfg, err := NewLoader().WithEnvPrefix("MYNODE").Load()
	require.NoError(t, err)
	assert.Equal(t, "rerank-multilingual-v2.0", cfg.Cohere.DefaultModel)
}

func TestLoader_InvalidEnvValue(t *testing.T) {
	t.Setenv("RERANKNODE_COHERE_TIMEOUT", "soon")

	_, err := NewLoader().Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RERANKNODE_COHERE_TIMEOUT")
}

func TestLoader_WithValidator(t *testing.T) {
	t.Setenv("RERANKNODE_METRICS_LISTEN_ADDR", ":80")

	_, err := NewLoader().
		WithValidator(func(cfg *Config) error {
			if cfg.Metrics.ListenAddr == ":80" {
				return assert.AnError
			}
			return nil
		}).
		Load()
	assert.ErrorIs(t, err, assert.AnError)
}

func TestLoader_NonExistentFile(t *testing.T) {
	cfg, err := NewLoader().WithConfigPath("/non/existent/path/reranknode.yaml").Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultCohereConfig(), cfg.Cohere)
}

func TestLoader_InvalidYAML(t *testing.T) {
	path := writeConfig(t, `
cohere:
  base_url: [invalid
  this is not valid yaml
`)
	_, err := NewLoader().WithConfigPath(path).Load()
	assert.Error(t, err)
}

// --- Config 方法测试 ---

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "valid default config", modify: func(c *Config) {}},
		{
			name:    "missing server addr",
			modify:  func(c *Config) { c.Server.Addr = "" },
			wantErr: "server.addr",
		},
		{
			name:    "rate limit without burst",
			modify:  func(c *Config) { c.Server.RateLimitBurst = 0 },
			wantErr: "rate_limit_burst",
		},
		{
			name:   "rate limit disabled ignores burst",
			modify: func(c *Config) { c.Server.RateLimitRPS = 0; c.Server.RateLimitBurst = 0 },
		},
		{
			name:    "missing base url",
			modify:  func(c *Config) { c.Cohere.BaseURL = "" },
			wantErr: "cohere.base_url",
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.Cohere.Timeout = 0 },
			wantErr: "cohere.timeout",
		},
		{
			name:    "unknown model",
			modify:  func(c *Config) { c.Cohere.DefaultModel = "rerank-v9" },
			wantErr: "not a rerank model",
		},
		{
			name:    "unknown backend",
			modify:  func(c *Config) { c.Credentials.Backend = "vault" },
			wantErr: "unknown credentials backend",
		},
		{
			name: "database backend with bad driver",
			modify: func(c *Config) {
				c.Credentials.Backend = CredentialBackendDatabase
				c.Database.Driver = "oracle"
			},
			wantErr: "unsupported database driver",
		},
		{
			name:    "bad log format",
			modify:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "unknown log format",
		},
		{
			name:    "sample rate out of range",
			modify:  func(c *Config) { c.Telemetry.SampleRate = 1.5 },
			wantErr: "sample_rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DefaultDatabaseConfig()
	assert.Equal(t, "reranknode.db", d.DSN())

	d.Driver = "postgres"
	d.Name = "nodes"
	d.Password = "pw"
	assert.Equal(t, "host=localhost port=5432 user=agentflow password=pw dbname=nodes sslmode=disable", d.DSN())

	d.Driver = "mysql"
	d.Port = 3306
	assert.Equal(t, "agentflow:pw@tcp(localhost:3306)/nodes?parseTime=true", d.DSN())

	d.Driver = "oracle"
	assert.Empty(t, d.DSN())
}

func TestCohereConfig_Client(t *testing.T) {
	c := DefaultCohereConfig().Client()
	assert.Equal(t, "https://api.cohere.ai", c.BaseURL)
	assert.Equal(t, "rerank-multilingual-v3.0", c.Model)
	assert.Empty(t, c.APIKey)
}

func TestMustLoad_Panics(t *testing.T) {
	path := writeConfig(t, "cohere:\n  timeout: -1s\n")
	assert.Panics(t, func() { MustLoad(path) })
}
