// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

/*
Package types 提供节点运行时的共享类型定义。

# 核心类型

  - Document          — 检索文档（PageContent + Metadata）
  - Error / ErrorCode — 结构化错误体系，含 HTTP 状态码、Retryable、Provider 标记

# 错误分类

  - CONFIGURATION — 必填输入缺失或输入类型不合法
  - CREDENTIAL    — 凭据槽无法解析或 API Key 为空
  - UPSTREAM_*    — 重排服务调用失败（网络、鉴权、配额），原样上抛
*/
package types
