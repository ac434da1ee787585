// =============================================================================
// reranknode 主入口
// =============================================================================
// Cohere Rerank Retriever 节点的宿主程序：描述查询、单次检索、凭据管理与 HTTP 服务
//
// 使用方法:
//
//	reranknode describe                               # 输出节点描述（JSON）
//	reranknode run --docs docs.json --query "..."     # 单次重排检索
//	reranknode credential add --id prod --api-key ... # 保存 Cohere 凭据
//	reranknode serve --config reranknode.yaml         # 启动 HTTP 服务
//	reranknode version                                # 显示版本信息
// =============================================================================

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/agentflow-nodes/config"
)

// =============================================================================
// 📦 版本信息（构建时注入）
// =============================================================================

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// =============================================================================
// 🎯 主函数
// =============================================================================

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run 分发子命令，返回进程退出码
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "describe":
		err = runDescribe(args[1:], stdout)
	case "run":
		err = runRetrieve(ctx, args[1:], stdout)
	case "credential":
		err = runCredential(ctx, args[1:], stdout)
	case "serve":
		err = runServe(ctx, args[1:])
	case "version":
		printVersion(stdout)
	case "help", "-h", "--help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		printUsage(stderr)
		return 2
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig 加载配置，path 为空时只使用默认值与环境变量
func loadConfig(path string) (*config.Config, error) {
	loader := config.NewLoader()
	if path != "" {
		loader = loader.WithConfigPath(path)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// 📋 版本和帮助
// =============================================================================

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "reranknode %s\n", Version)
	fmt.Fprintf(w, "  Build Time: %s\n", BuildTime)
	fmt.Fprintf(w, "  Git Commit: %s\n", GitCommit)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `reranknode - Cohere Rerank Retriever node host

Usage:
  reranknode <command> [options]

Commands:
  describe     Print node descriptors as JSON
  run          Rerank a local document set once
  credential   Manage stored Cohere credentials (add, list, delete)
  serve        Start the HTTP API
  version      Show version information
  help         Show this help message

Options for 'run':
  --docs <path>        JSON array of documents ("-" reads stdin)
  --query <text>       Rerank query (falls back to --question)
  --question <text>    User question for this run
  --credential <id>    Credential id bound to the node
  --api-key <key>      Use this key instead of a stored credential
  --model <name>       Rerank model
  --top-k <n>          Number of documents to keep
  --max-chunks <n>     Max chunks per document
  --base-top-k <n>     Top-K of the local BM25 base retriever
  --output <name>      document (default) or text

Common options:
  --config <path>      Path to configuration file (YAML)

Examples:
  reranknode describe
  reranknode run --docs docs.json --query "capital of France" --api-key $COHERE_API_KEY
  reranknode credential add --id prod --api-key $COHERE_API_KEY --label production
  reranknode serve --config /etc/reranknode/config.yaml`)
}

// =============================================================================
// 🔧 日志初始化
// =============================================================================

func initLogger(cfg config.LogConfig) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	encoding := "json"
	if cfg.Format == "console" {
		encoding = "console"
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Format == "console",
		Encoding:          encoding,
		EncoderConfig:     encoderConfig,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     !cfg.EnableCaller,
		DisableStacktrace: !cfg.EnableStacktrace,
	}

	logger, err := zapConfig.Build()
	if err != nil {
		// 回退到基本 logger
		logger, _ = zap.NewProduction()
	}
	return logger
}
