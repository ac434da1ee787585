// =============================================================================
// 🧪 测试辅助函数
// =============================================================================
package testutil

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/BaSui01/agentflow-nodes/types"
)

// TestContext 返回带超时的测试上下文
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// CancelledContext 返回已取消的上下文
func CancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// PageContents 提取文档正文
func PageContents(docs []types.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.PageContent
	}
	return out
}

// AssertPageContents 断言文档正文按顺序相等
func AssertPageContents(t *testing.T, expected []string, docs []types.Document) {
	t.Helper()

	actual := PageContents(docs)
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("page contents mismatch:\n expected: %q\n actual:   %q", expected, actual)
	}
}

// AssertJSONEqual 断言两个值序列化后的 JSON 相等
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	if MustJSON(t, expected) != MustJSON(t, actual) {
		t.Errorf("JSON mismatch:\n expected: %s\n actual:   %s", MustJSON(t, expected), MustJSON(t, actual))
	}
}

// MustJSON 序列化为 JSON 字符串，失败时终止测试
func MustJSON(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return string(data)
}
