package config

import (
	"time"

	"github.com/BaSui01/agentflow-nodes/llm/rerank"
)

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Server:      DefaultServerConfig(),
		Cohere:      DefaultCohereConfig(),
		Credentials: DefaultCredentialsConfig(),
		Database:    DefaultDatabaseConfig(),
		Redis:       DefaultRedisConfig(),
		Log:         DefaultLogConfig(),
		Telemetry:   DefaultTelemetryConfig(),
		Metrics:     DefaultMetricsConfig(),
	}
}

// DefaultServerConfig 返回默认 HTTP 配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		RateLimitRPS:    50,
		RateLimitBurst:  100,
	}
}

// DefaultCohereConfig 与 rerank.DefaultCohereConfig 保持一致
func DefaultCohereConfig() CohereConfig {
	client := rerank.DefaultCohereConfig()
	return CohereConfig{
		BaseURL:      client.BaseURL,
		Timeout:      client.Timeout,
		DefaultModel: rerank.DefaultModel,
	}
}

// DefaultCredentialsConfig 默认使用内存存储
func DefaultCredentialsConfig() CredentialsConfig {
	return CredentialsConfig{
		Backend:        CredentialBackendMemory,
		RedisKeyPrefix: "credential:",
		AutoMigrate:    true,
	}
}

// DefaultRedisConfig 返回默认 Redis 配置
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:         "localhost:6379",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
	}
}

// DefaultDatabaseConfig 返回默认数据库配置
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver:          "sqlite",
		Host:            "localhost",
		Port:            5432,
		User:            "agentflow",
		Name:            "reranknode.db",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:        "info",
		Format:       "json",
		OutputPaths:  []string{"stderr"},
		EnableCaller: true,
	}
}

// DefaultTelemetryConfig 返回默认遥测配置
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		Insecure:     true,
		ServiceName:  "agentflow-reranknode",
		SampleRate:   0.1,
	}
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   true,
		Namespace: "agentflow",
	}
}
