package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/BaSui01/agentflow-nodes/credential"
	"github.com/BaSui01/agentflow-nodes/llm/rerank"
	"github.com/BaSui01/agentflow-nodes/nodes"
	"github.com/BaSui01/agentflow-nodes/nodes/cohererank"
	"github.com/BaSui01/agentflow-nodes/testutil/fixtures"
	"github.com/BaSui01/agentflow-nodes/testutil/mocks"
	"github.com/BaSui01/agentflow-nodes/types"
)

type nodeAPI struct {
	mux    *http.ServeMux
	server *mocks.CohereServer
}

func newNodeAPI(t *testing.T) *nodeAPI {
	t.Helper()

	server := mocks.NewCohereServer(t)
	cfg := rerank.DefaultCohereConfig()
	cfg.BaseURL = server.URL

	reg := nodes.NewRegistry()
	require.NoError(t, cohererank.Register(reg, cfg))

	h := NewNodeHandler(reg, nodes.Options{
		Credentials: credential.NewMemoryStore(fixtures.CohereCredential("api-key")),
	}, zaptest.NewLogger(t))

	mux := http.NewServeMux()
	h.Register(mux)
	return &nodeAPI{mux: mux, server: server}
}

func (a *nodeAPI) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

// =============================================================================
// 🧪 NodeHandler 测试
// =============================================================================

func TestNodeHandler_ListAndGet(t *testing.T) {
	api := newNodeAPI(t)

	rec, resp := api.do(t, http.MethodGet, "/api/v1/nodes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	list, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, list, 1)

	rec, resp = api.do(t, http.MethodGet, "/api/v1/nodes/cohereRerankRetriever", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cohere Rerank Retriever", resp.Data.(map[string]any)["label"])

	rec, resp = api.do(t, http.MethodGet, "/api/v1/nodes/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(types.ErrNodeNotFound), resp.Error.Code)
}

func TestNodeHandler_RetrieveDocuments(t *testing.T) {
	api := newNodeAPI(t)

	rec, resp := api.do(t, http.MethodPost, "/api/v1/nodes/cohereRerankRetriever/retrieve", RetrieveRequest{
		Documents:  fixtures.CapitalDocuments(),
		Inputs:     map[string]any{"model": "rerank-english-v3.0", "topK": 2},
		Credential: fixtures.CohereCredentialID,
		Question:   "capital of France",
		BaseTopK:   5,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	docs := data["documents"].([]any)
	require.Len(t, docs, 2)
	assert.Equal(t, "paris", docs[0].(map[string]any)["id"])

	calls := api.server.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "rerank-english-v3.0", calls[0].Model)
	assert.Equal(t, 2, calls[0].TopN)
}

func TestNodeHandler_RetrieveText(t *testing.T) {
	api := newNodeAPI(t)

	rec, resp := api.do(t, http.MethodPost, "/api/v1/nodes/cohereRerankRetriever/retrieve", RetrieveRequest{
		Documents:  fixtures.CapitalDocuments(),
		Inputs:     map[string]any{"query": "capital of Spain", "topK": "1"},
		Credential: fixtures.CohereCredentialID,
		Output:     "text",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `Madrid is the capital of Spain.\tIt is central.`, resp.Data.(map[string]any)["text"])
}

func TestNodeHandler_RetrieveErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     any
		wantCode int
		wantErr  types.ErrorCode
	}{
		{
			name:     "unknown node",
			path:     "/api/v1/nodes/nope/retrieve",
			body:     RetrieveRequest{Documents: fixtures.CapitalDocuments(), Question: "q"},
			wantCode: http.StatusNotFound,
			wantErr:  types.ErrNodeNotFound,
		},
		{
			name:     "retriever output",
			path:     "/api/v1/nodes/cohereRerankRetriever/retrieve",
			body:     RetrieveRequest{Documents: fixtures.CapitalDocuments(), Output: "retriever"},
			wantCode: http.StatusBadRequest,
			wantErr:  types.ErrInvalidRequest,
		},
		{
			name:     "no documents",
			path:     "/api/v1/nodes/cohereRerankRetriever/retrieve",
			body:     RetrieveRequest{Question: "q"},
			wantCode: http.StatusBadRequest,
			wantErr:  types.ErrInvalidRequest,
		},
		{
			name:     "unknown field",
			path:     "/api/v1/nodes/cohereRerankRetriever/retrieve",
			body:     map[string]any{"docs": []string{"a"}},
			wantCode: http.StatusBadRequest,
			wantErr:  types.ErrInvalidRequest,
		},
		{
			name: "missing credential",
			path: "/api/v1/nodes/cohereRerankRetriever/retrieve",
			body: RetrieveRequest{
				Documents: fixtures.CapitalDocuments(), Credential: "missing", Question: "capital",
			},
			wantCode: http.StatusUnauthorized,
			wantErr:  types.ErrCredential,
		},
		{
			name: "invalid model",
			path: "/api/v1/nodes/cohereRerankRetriever/retrieve",
			body: RetrieveRequest{
				Documents:  fixtures.CapitalDocuments(),
				Inputs:     map[string]any{"model": "rerank-v9"},
				Credential: fixtures.CohereCredentialID,
				Question:   "capital",
			},
			wantCode: http.StatusBadRequest,
			wantErr:  types.ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newNodeAPI(t)
			rec, resp := api.do(t, http.MethodPost, tt.path, tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, string(tt.wantErr), resp.Error.Code)
			assert.Empty(t, api.server.Calls())
		})
	}
}

func TestNodeHandler_UpstreamFailure(t *testing.T) {
	api := newNodeAPI(t)
	api.server.FailWith(http.StatusServiceUnavailable)

	rec, resp := api.do(t, http.MethodPost, "/api/v1/nodes/cohereRerankRetriever/retrieve", RetrieveRequest{
		Documents:  fixtures.CapitalDocuments(),
		Credential: fixtures.CohereCredentialID,
		Question:   "capital of Italy",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, string(types.ErrServiceUnavailable), resp.Error.Code)
	assert.True(t, resp.Error.Retryable)
}
