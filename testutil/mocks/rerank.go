// MockRerankProvider 重排服务的测试模拟实现。
//
// 支持按词重叠打分的确定性排序、固定结果与错误注入。
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/BaSui01/agentflow-nodes/llm/rerank"
)

// MockRerankProvider 是 rerank.Provider 的模拟实现
type MockRerankProvider struct {
	mu sync.Mutex

	model   string
	results []rerank.RerankResult
	err     error
	calls   []rerank.RerankRequest
}

// NewMockRerankProvider 创建模拟重排服务
func NewMockRerankProvider() *MockRerankProvider {
	return &MockRerankProvider{model: rerank.DefaultModel}
}

// WithModel 设置默认模型
func (m *MockRerankProvider) WithModel(model string) *MockRerankProvider {
	m.model = model
	return m
}

// WithResults 设置固定返回结果
func (m *MockRerankProvider) WithResults(results ...rerank.RerankResult) *MockRerankProvider {
	m.results = results
	return m
}

// WithError 设置返回错误
func (m *MockRerankProvider) WithError(err error) *MockRerankProvider {
	m.err = err
	return m
}

func (m *MockRerankProvider) Name() string      { return "mock-rerank" }
func (m *MockRerankProvider) Model() string     { return m.model }
func (m *MockRerankProvider) MaxDocuments() int { return 1000 }

// Rerank 记录请求并返回结果
func (m *MockRerankProvider) Rerank(ctx context.Context, req *rerank.RerankRequest) (*rerank.RerankResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *req
	cp.Documents = append([]rerank.Document(nil), req.Documents...)
	m.calls = append(m.calls, cp)

	if m.err != nil {
		return nil, m.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := m.results
	if results == nil {
		texts := make([]string, len(req.Documents))
		for i, d := range req.Documents {
			texts[i] = d.Text
		}
		results = RankByOverlap(req.Query, texts, req.TopN)
	}

	return &rerank.RerankResponse{
		Provider: m.Name(),
		Model:    req.Model,
		Results:  results,
	}, nil
}

// Calls 返回已记录的请求
func (m *MockRerankProvider) Calls() []rerank.RerankRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]rerank.RerankRequest(nil), m.calls...)
}

// CallCount 返回调用次数
func (m *MockRerankProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// RankByOverlap 按查询词与文档词的重叠比例打分，分数降序，同分保持原顺序。
// topN <= 0 时返回全部。
func RankByOverlap(query string, docs []string, topN int) []rerank.RerankResult {
	qTerms := strings.Fields(strings.ToLower(query))
	results := make([]rerank.RerankResult, len(docs))
	for i, d := range docs {
		words := make(map[string]bool)
		for _, w := range strings.Fields(strings.ToLower(d)) {
			words[strings.Trim(w, ".,;:!?")] = true
		}
		hit := 0
		for _, q := range qTerms {
			if words[q] {
				hit++
			}
		}
		score := 0.0
		if len(qTerms) > 0 {
			score = float64(hit) / float64(len(qTerms))
		}
		results[i] = rerank.RerankResult{Index: i, RelevanceScore: score}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}
	return results
}
