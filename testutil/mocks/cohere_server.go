package mocks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RerankCall 假服务收到的一次 /v1/rerank 请求
type RerankCall struct {
	Authorization   string
	Model           string   `json:"model"`
	Query           string   `json:"query"`
	Documents       []string `json:"documents"`
	TopN            int      `json:"top_n"`
	MaxChunksPerDoc int      `json:"max_chunks_per_doc"`
	ReturnDocuments bool     `json:"return_documents"`
}

// CohereServer 模拟 Cohere 重排 API 的 httptest 服务
type CohereServer struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []RerankCall
	status int
}

// NewCohereServer 启动假服务，测试结束时自动关闭
func NewCohereServer(t *testing.T) *CohereServer {
	t.Helper()

	s := &CohereServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// FailWith 让后续请求返回指定状态码
func (s *CohereServer) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Calls 返回已收到的请求
func (s *CohereServer) Calls() []RerankCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RerankCall(nil), s.calls...)
}

func (s *CohereServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/rerank" || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var call RerankCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	call.Authorization = r.Header.Get("Authorization")

	s.mu.Lock()
	s.calls = append(s.calls, call)
	status := s.status
	s.mu.Unlock()

	if status != 0 {
		http.Error(w, `{"message":"injected failure"}`, status)
		return
	}

	type result struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	}
	ranked := RankByOverlap(call.Query, call.Documents, call.TopN)
	out := make([]result, len(ranked))
	for i, r := range ranked {
		out[i] = result{Index: r.Index, RelevanceScore: r.RelevanceScore}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "fake-rerank",
		"results": out,
		"meta":    map[string]any{"billed_units": map[string]int{"search_units": 1}},
	})
}
