// Package telemetry 封装 OpenTelemetry SDK 初始化逻辑，
// 为节点宿主提供 TracerProvider 和 MeterProvider 配置。
// 禁用时使用 noop 实现，不连接任何外部服务。
package telemetry
