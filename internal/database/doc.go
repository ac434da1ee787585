// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 database 为凭据存储提供基于 GORM 的数据库接入。

# 核心类型

  - Open / Dialector：按驱动名（postgres、mysql、sqlite）选择 dialector
    并打开连接。
  - PoolManager：连接池管理器，配置连接数与生命周期，后台健康检查
    探活并把连接数上报给 StatsRecorder。
  - PoolConfig：连接池配置，PoolConfigFrom 从 config.DatabaseConfig 提取。
*/
package database
