// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

/*
Package nodes 定义可视化工作流构建器的节点插件契约。

# 核心类型

  - NodeDescriptor：节点元数据（标识、输入、输出、凭据槽），注册后不可变
  - ParameterSpec / OutputSpec / CredentialRequirement：描述字段
  - ResolvedInputs：宿主解析后的输入值，带类型化读取与按描述校验
  - Node：描述 + 每次执行的工厂方法 Init
  - Registry：节点注册表，负责查找、RunID 注入、日志与指标

# 错误

输入缺失或类型不合法返回 CONFIGURATION 错误；其余错误由节点原样上抛。
*/
package nodes
