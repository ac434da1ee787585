// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

/*
Package main 提供 Cohere Rerank Retriever 节点的宿主程序入口。

# 概述

cmd/reranknode 装配配置、日志、凭据后端、Prometheus 指标与
OpenTelemetry，并把 Cohere 重排节点注册到默认注册表。

# 子命令

  - describe：以 JSON 输出节点描述
  - run：用本地文档集（BM25 基础检索器）执行一次重排检索
  - credential add/list/delete：管理 database 或 redis 后端中的凭据
  - serve：启动节点 HTTP API，可选独立的 /metrics 端口
  - version：构建信息，通过 ldflags 注入 Version、BuildTime、GitCommit

# 中间件链

Recovery → RequestID → OTelTracing → RequestLogger → RateLimiter（按 IP，
server.rate_limit_rps 为 0 时关闭）。
*/
package main
