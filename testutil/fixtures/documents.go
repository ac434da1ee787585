// 测试数据工厂：文档集合。
package fixtures

import "github.com/BaSui01/agentflow-nodes/types"

// CapitalDocuments 返回关于首都的小型文档集合。
func CapitalDocuments() []types.Document {
	return []types.Document{
		{ID: "berlin", PageContent: "Berlin is the capital of Germany.", Metadata: map[string]any{"source": "wiki"}},
		{ID: "paris", PageContent: "Paris is the capital of France.", Metadata: map[string]any{"source": "wiki"}},
		{ID: "lyon", PageContent: "Lyon is a large city in France known for food.", Metadata: map[string]any{"source": "blog"}},
		{ID: "rome", PageContent: "Rome is the capital of Italy.", Metadata: map[string]any{"source": "wiki"}},
		{ID: "madrid", PageContent: "Madrid is the capital of Spain.\tIt is central.", Metadata: map[string]any{"source": "wiki"}},
	}
}
