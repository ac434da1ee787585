// Copyright 2026 AgentFlow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

/*
Package testutil 提供节点测试的共享工具和辅助函数。

# 核心能力

  - 上下文辅助: TestContext / CancelledContext，自动注册 Cleanup 防止泄漏
  - 断言工具: AssertPageContents / AssertJSONEqual
  - 数据工具: MustJSON

# 子包

  - testutil/mocks: MockRerankProvider、MockRetriever、CohereServer（httptest 假服务）
  - testutil/fixtures: 预置文档集合与凭据记录
*/
package testutil
