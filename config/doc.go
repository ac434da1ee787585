// Package config 提供节点宿主的配置加载：默认值、YAML 文件与环境变量覆盖。
//
// 配置覆盖 HTTP 服务、Cohere 客户端参数、凭据存储后端、数据库、Redis、日志、
// 遥测与指标。API Key 不进入配置，统一由凭据存储提供。
package config
