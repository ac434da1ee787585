package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BaSui01/agentflow-nodes/api/handlers"
	"github.com/BaSui01/agentflow-nodes/config"
	"github.com/BaSui01/agentflow-nodes/internal/server"
)

// =============================================================================
// 🖥️ serve 命令
// =============================================================================

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config file")
	addr := fs.String("addr", "", "Listen address, overrides server.addr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := initLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting reranknode",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	rt, err := newRuntime(ctx, cfg, logger, runtimeOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(context.Background()) }()

	srv := NewServer(rt)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	err = srv.Wait(ctx)

	logger.Info("reranknode stopped")
	return err
}

// =============================================================================
// 🌐 Server
// =============================================================================

// Server 节点 API 与指标端点
type Server struct {
	rt     *runtime
	cfg    *config.Config
	logger *zap.Logger

	httpManager    *server.Manager
	metricsManager *server.Manager

	// 停止限流器的后台清理
	cancel context.CancelFunc
}

// NewServer 创建服务器
func NewServer(rt *runtime) *Server {
	return &Server{
		rt:     rt,
		cfg:    rt.cfg,
		logger: rt.logger,
	}
}

// Handler 构建带中间件链的路由
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()

	health := handlers.NewHealthHandler(s.logger)
	for _, check := range s.rt.checks {
		health.RegisterCheck(check)
	}
	mux.HandleFunc("GET /healthz", health.HandleHealthz)
	mux.HandleFunc("GET /readyz", health.HandleReady)
	mux.HandleFunc("GET /version", health.HandleVersion(Version, BuildTime, GitCommit))

	handlers.NewNodeHandler(s.rt.registry, s.rt.options(), s.logger).Register(mux)

	// 指标未单独监听时挂在主端口
	if s.rt.collector != nil && s.cfg.Metrics.ListenAddr == "" {
		mux.Handle("GET /metrics", s.rt.collector.Handler())
	}

	chain := []Middleware{
		Recovery(s.logger),
		RequestID(),
		OTelTracing(),
		RequestLogger(s.logger),
	}
	if s.cfg.Server.RateLimitRPS > 0 {
		chain = append(chain, RateLimiter(ctx, s.cfg.Server.RateLimitRPS, s.cfg.Server.RateLimitBurst, s.logger))
	}
	return Chain(mux, chain...)
}

// Start 启动 HTTP 与指标服务器（非阻塞）
func (s *Server) Start(ctx context.Context) error {
	limiterCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	sc := server.DefaultConfig()
	sc.Addr = s.cfg.Server.Addr
	sc.ReadTimeout = s.cfg.Server.ReadTimeout
	sc.WriteTimeout = s.cfg.Server.WriteTimeout
	sc.ShutdownTimeout = s.cfg.Server.ShutdownTimeout

	s.httpManager = server.NewManager("api", s.Handler(limiterCtx), sc, s.logger)
	if err := s.httpManager.Start(); err != nil {
		cancel()
		return fmt.Errorf("start HTTP server: %w", err)
	}

	if s.rt.collector != nil && s.cfg.Metrics.ListenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", s.rt.collector.Handler())

		mc := sc
		mc.Addr = s.cfg.Metrics.ListenAddr
		s.metricsManager = server.NewManager("metrics", mux, mc, s.logger)
		if err := s.metricsManager.Start(); err != nil {
			_ = s.httpManager.Shutdown(context.Background())
			cancel()
			return fmt.Errorf("start metrics server: %w", err)
		}
	}

	s.logger.Info("All servers started",
		zap.String("addr", s.httpManager.ListenAddr()),
		zap.String("metrics_addr", s.cfg.Metrics.ListenAddr),
	)
	return nil
}

// Wait 阻塞到 ctx 结束或 API 服务器异常，然后关闭所有服务器
func (s *Server) Wait(ctx context.Context) error {
	err := s.httpManager.Wait(ctx)
	if s.metricsManager != nil {
		err = errors.Join(err, s.metricsManager.Shutdown(context.Background()))
	}
	if s.cancel != nil {
		s.cancel()
	}
	return err
}

// Addr 返回 API 实际监听地址
func (s *Server) Addr() string {
	if s.httpManager == nil {
		return ""
	}
	return s.httpManager.ListenAddr()
}
