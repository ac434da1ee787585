// Package tlsutil 提供加固的客户端 TLS 配置（TLS 1.2+，仅 AEAD 密码套件），
// 用于 Cohere HTTP 客户端与 Redis 凭据后端。
package tlsutil
