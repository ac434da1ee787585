// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 server 提供 HTTP 服务器生命周期管理：非阻塞启动、优雅关闭与
基于 context 的等待。

# 核心类型

  - Manager：封装 net/http.Server 与 net.Listener，提供
    Start/Shutdown/Wait 等生命周期方法。reranknode serve 用它
    同时托管节点 API 与 Prometheus 指标端点。
  - Config：监听地址、读写超时、空闲超时、最大请求头与关闭超时。

# 主要能力

  - 非阻塞启动：Start 在后台 goroutine 中运行服务。
  - 优雅关闭：Shutdown 在配置的超时内排空请求，可重复调用。
  - 等待：Wait 在 ctx 取消或服务异常时触发关闭，信号处理交给调用方
    （signal.NotifyContext）。
  - 实际地址：ListenAddr 返回 ":0" 绑定后的真实地址，便于测试。
*/
package server
