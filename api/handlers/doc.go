// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

/*
Package handlers 提供节点宿主 HTTP API 的请求处理器。

# 核心类型

  - NodeHandler      — 节点描述查询与一次性检索（BM25 召回 + 节点重排）
  - HealthHandler    — 存活与就绪探针，就绪检查覆盖凭据存储
  - Response         — 统一 JSON 响应结构（success + data + error + timestamp）
  - ErrorInfo        — 结构化错误信息，含 code、message、retryable 标记
  - ResponseWriter   — 包装 http.ResponseWriter 以捕获状态码

# 主要能力

  - 统一响应格式：WriteSuccess / WriteError / WriteJSON
  - ErrorCode → HTTP 状态码映射，上游错误统一为 5xx 或 429
  - 请求体严格解码：DecodeJSONBody 拒绝未知字段并限制大小
*/
package handlers
