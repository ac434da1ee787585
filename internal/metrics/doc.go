// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 metrics 提供基于 Prometheus 的节点指标采集能力，覆盖
重排调用、节点初始化与凭据数据库连接池三个维度。

# 核心类型

  - Collector：指标收集器，实现 nodes.Recorder，可直接传入
    nodes.Options 供节点与重排压缩器上报。

# 主要能力

  - 重排指标：请求总数、请求耗时、送入/返回文档数，
    按 provider/model 分组。
  - 节点指标：初始化次数与耗时，按 node/output/status 分组。
  - 数据库指标：活跃/空闲连接数 Gauge。
  - Handler：基于 promhttp 暴露 /metrics。
*/
package metrics
