// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 rerank 提供 Cohere 重排序服务的客户端与标准化请求/响应模型。

# 核心接口

  - Provider：重排序接口，包含 Rerank、Name、Model 与 MaxDocuments 方法。
  - RerankRequest / RerankResponse：标准化的请求与响应模型。
  - RerankResult：单条排序结果，包含原始索引与归一化相关性分数。

# 主要能力

  - Cohere 适配：CohereProvider 调用 /v1/rerank，支持 top_n 与 max_chunks_per_doc。
  - 错误分类：HTTP 状态映射为 types.Error（AUTHENTICATION、RATE_LIMIT、UPSTREAM_ERROR）。
  - 本层不做重试与退避，错误原样返回给调用方。
*/
package rerank
