package mocks

import (
	"context"
	"sync"

	"github.com/BaSui01/agentflow-nodes/types"
)

// MockRetriever 返回固定文档的基础检索器，带自身 TopK
type MockRetriever struct {
	mu sync.Mutex

	docs    []types.Document
	topK    int
	err     error
	queries []string
}

// NewMockRetriever 创建模拟检索器
func NewMockRetriever(docs []types.Document) *MockRetriever {
	return &MockRetriever{docs: docs, topK: 4}
}

// WithTopK 设置检索器自身的 TopK
func (m *MockRetriever) WithTopK(k int) *MockRetriever {
	m.topK = k
	return m
}

// WithError 设置返回错误
func (m *MockRetriever) WithError(err error) *MockRetriever {
	m.err = err
	return m
}

func (m *MockRetriever) TopK() int { return m.topK }

// Retrieve 记录查询并返回全部文档（不截断，便于观察重排效果）
func (m *MockRetriever) Retrieve(ctx context.Context, query string) ([]types.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return append([]types.Document(nil), m.docs...), nil
}

// Queries 返回收到的查询
func (m *MockRetriever) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}
