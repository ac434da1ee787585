package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BaSui01/agentflow-nodes/api/handlers"
	"github.com/BaSui01/agentflow-nodes/config"
	"github.com/BaSui01/agentflow-nodes/credential"
	"github.com/BaSui01/agentflow-nodes/internal/database"
	"github.com/BaSui01/agentflow-nodes/internal/metrics"
	"github.com/BaSui01/agentflow-nodes/internal/telemetry"
	"github.com/BaSui01/agentflow-nodes/internal/tlsutil"
	"github.com/BaSui01/agentflow-nodes/nodes"
	"github.com/BaSui01/agentflow-nodes/nodes/cohererank"
)

// =============================================================================
// 🧱 运行时装配
// =============================================================================

// runtime 一次进程内共享的依赖：注册表、凭据后端、指标与遥测
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *nodes.Registry

	telemetry *telemetry.Providers
	collector *metrics.Collector

	// 凭据后端，按配置只有一个非空
	memory *credential.MemoryStore
	gorm   *credential.GormStore
	redis  *credential.RedisStore

	pool        *database.PoolManager
	redisClient *redis.Client

	checks []handlers.HealthCheck
}

// runtimeOptions 装配选项，测试中替换注册表与指标注册表
type runtimeOptions struct {
	registry        *nodes.Registry
	metricsRegistry *prometheus.Registry
}

// newRuntime 按配置装配依赖。失败时释放已创建的资源。
func newRuntime(ctx context.Context, cfg *config.Config, logger *zap.Logger, ro runtimeOptions) (*runtime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rt := &runtime{
		cfg:      cfg,
		logger:   logger,
		registry: ro.registry,
	}
	if rt.registry == nil {
		rt.registry = nodes.DefaultRegistry
	}

	providers, err := telemetry.Init(cfg.Telemetry, logger)
	if err != nil {
		// 遥测不可用不阻止节点运行
		logger.Warn("failed to initialize telemetry", zap.Error(err))
		providers = &telemetry.Providers{}
	}
	rt.telemetry = providers

	if cfg.Metrics.Enabled {
		rt.collector = metrics.NewCollector(cfg.Metrics.Namespace, ro.metricsRegistry, logger)
	}

	if err := rt.initCredentials(ctx); err != nil {
		_ = rt.Close(context.Background())
		return nil, err
	}

	if _, ok := rt.registry.Get(cohererank.NodeName); !ok {
		if err := cohererank.Register(rt.registry, cfg.Cohere.Client()); err != nil {
			_ = rt.Close(context.Background())
			return nil, err
		}
	}

	logger.Info("runtime ready",
		zap.String("credentials_backend", cfg.Credentials.Backend),
		zap.Bool("metrics", rt.collector != nil),
		zap.Bool("telemetry", providers.Enabled()),
	)
	return rt, nil
}

func (rt *runtime) initCredentials(ctx context.Context) error {
	switch rt.cfg.Credentials.Backend {
	case config.CredentialBackendMemory:
		rt.memory = credential.NewMemoryStore()

	case config.CredentialBackendDatabase:
		db, err := database.Open(rt.cfg.Database, rt.logger)
		if err != nil {
			return err
		}
		var recorder database.StatsRecorder
		if rt.collector != nil {
			recorder = rt.collector
		}
		pool, err := database.NewPoolManager(db, "credentials", database.PoolConfigFrom(rt.cfg.Database), recorder, rt.logger)
		if err != nil {
			return err
		}
		rt.pool = pool
		rt.gorm = credential.NewGormStore(pool.DB(), rt.logger)
		if rt.cfg.Credentials.AutoMigrate {
			if err := rt.gorm.AutoMigrate(); err != nil {
				return err
			}
		}
		rt.checks = append(rt.checks, handlers.NewPingCheck("database", pool.Ping))

	case config.CredentialBackendRedis:
		rc := rt.cfg.Redis
		ro := &redis.Options{
			Addr:         rc.Addr,
			Password:     rc.Password,
			DB:           rc.DB,
			PoolSize:     rc.PoolSize,
			MinIdleConns: rc.MinIdleConns,
		}
		if rc.TLS {
			host, _, err := net.SplitHostPort(rc.Addr)
			if err != nil {
				host = rc.Addr
			}
			ro.TLSConfig = tlsutil.ClientConfig(host)
		}
		rt.redisClient = redis.NewClient(ro)
		rt.redis = credential.NewRedisStore(rt.redisClient, rt.cfg.Credentials.RedisKeyPrefix, rt.logger)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rt.redis.Ping(pingCtx); err != nil {
			return err
		}
		rt.checks = append(rt.checks, handlers.NewPingCheck("redis", rt.redis.Ping))

	default:
		return fmt.Errorf("unknown credentials backend %q", rt.cfg.Credentials.Backend)
	}
	return nil
}

// resolver 返回凭据解析链。请求级覆盖由 Chain 优先处理。
func (rt *runtime) resolver() credential.Resolver {
	switch {
	case rt.gorm != nil:
		return credential.Chain{rt.gorm}
	case rt.redis != nil:
		return credential.Chain{rt.redis}
	default:
		return credential.Chain{rt.memory}
	}
}

// options 构建节点运行选项
func (rt *runtime) options() nodes.Options {
	opts := nodes.Options{
		Credentials: rt.resolver(),
		Logger:      rt.logger,
	}
	if rt.collector != nil {
		opts.Recorder = rt.collector
	}
	return opts
}

// saveCredential 写入持久化后端，返回记录 ID
func (rt *runtime) saveCredential(ctx context.Context, rec credential.Record, label string) (string, error) {
	switch {
	case rt.gorm != nil:
		return rt.gorm.Save(ctx, rec, label)
	case rt.redis != nil:
		if err := rt.redis.Put(ctx, rec); err != nil {
			return "", err
		}
		return rec.ID, nil
	default:
		return "", errors.New("credentials backend memory does not persist; configure database or redis")
	}
}

// deleteCredential 从持久化后端删除凭据
func (rt *runtime) deleteCredential(ctx context.Context, id string) error {
	switch {
	case rt.gorm != nil:
		return rt.gorm.Delete(ctx, id)
	case rt.redis != nil:
		return rt.redis.Delete(ctx, id)
	default:
		return errors.New("credentials backend memory does not persist; configure database or redis")
	}
}

// Close 释放连接并刷新遥测数据
func (rt *runtime) Close(ctx context.Context) error {
	var errs []error
	if rt.pool != nil {
		errs = append(errs, rt.pool.Close())
	}
	if rt.redisClient != nil {
		errs = append(errs, rt.redisClient.Close())
	}
	if rt.telemetry != nil {
		errs = append(errs, rt.telemetry.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
