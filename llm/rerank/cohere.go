package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BaSui01/agentflow-nodes/internal/tlsutil"
	"github.com/BaSui01/agentflow-nodes/types"
)

const cohereProviderName = "cohere-rerank"

// CohereProvider 使用 Cohere API 执行重排.
type CohereProvider struct {
	cfg    CohereConfig
	client *http.Client
}

// NewCohereProvider 创建新的 Cohere reranker 提供者.
func NewCohereProvider(cfg CohereConfig) *CohereProvider {
	defaults := DefaultCohereConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}

	return &CohereProvider{
		cfg:    cfg,
		client: tlsutil.HTTPClient(cfg.Timeout),
	}
}

func (p *CohereProvider) Name() string      { return cohereProviderName }
func (p *CohereProvider) Model() string     { return p.cfg.Model }
func (p *CohereProvider) MaxDocuments() int { return 1000 }

type cohereRerankRequest struct {
	Model           string   `json:"model"`
	Query           string   `json:"query"`
	Documents       []string `json:"documents"`
	TopN            int      `json:"top_n,omitempty"`
	MaxChunksPerDoc int      `json:"max_chunks_per_doc,omitempty"`
	ReturnDocuments bool     `json:"return_documents"`
}

type cohereRerankResponse struct {
	ID      string `json:"id"`
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
		Document       *struct {
			Text string `json:"text"`
		} `json:"document,omitempty"`
	} `json:"results"`
	Meta struct {
		BilledUnits struct {
			SearchUnits int `json:"search_units"`
		} `json:"billed_units"`
	} `json:"meta"`
}

// Rerank 使用 Cohere 对文档进行重新排序。错误以 *types.Error 返回，不做重试。
func (p *CohereProvider) Rerank(ctx context.Context, req *RerankRequest) (*RerankResponse, error) {
	model := req.Model
	if model == "" {
		model = p.cfg.Model
	}
	if len(req.Documents) > p.MaxDocuments() {
		return nil, types.NewError(types.ErrInvalidRequest,
			fmt.Sprintf("too many documents: %d > %d", len(req.Documents), p.MaxDocuments())).
			WithProvider(p.Name())
	}

	docs := make([]string, len(req.Documents))
	for i, d := range req.Documents {
		docs[i] = d.Text
	}

	body := cohereRerankRequest{
		Model:           model,
		Query:           req.Query,
		Documents:       docs,
		TopN:            req.TopN,
		MaxChunksPerDoc: req.MaxChunksPerDoc,
		ReturnDocuments: req.ReturnDocuments,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cohere request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(p.cfg.BaseURL, "/")+"/v1/rerank",
		bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		code := types.ErrUpstreamError
		if errors.Is(err, context.DeadlineExceeded) {
			code = types.ErrUpstreamTimeout
		}
		return nil, types.NewError(code, "cohere rerank request failed").
			WithCause(err).
			WithProvider(p.Name())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, types.NewError(types.ErrorCodeFromStatus(resp.StatusCode),
			fmt.Sprintf("cohere rerank error: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))).
			WithHTTPStatus(resp.StatusCode).
			WithRetryable(resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500).
			WithProvider(p.Name())
	}

	var cResp cohereRerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return nil, types.NewError(types.ErrUpstreamError, "failed to decode cohere response").
			WithCause(err).
			WithProvider(p.Name())
	}

	results := make([]RerankResult, 0, len(cResp.Results))
	for _, r := range cResp.Results {
		if r.Index < 0 || r.Index >= len(req.Documents) {
			continue
		}
		result := RerankResult{
			Index:          r.Index,
			RelevanceScore: r.RelevanceScore,
			Document:       Document{ID: req.Documents[r.Index].ID},
		}
		if r.Document != nil {
			result.Document.Text = r.Document.Text
		}
		results = append(results, result)
	}

	return &RerankResponse{
		ID:       cResp.ID,
		Provider: p.Name(),
		Model:    model,
		Results:  results,
		Usage: RerankUsage{
			SearchUnits: cResp.Meta.BilledUnits.SearchUnits,
		},
		CreatedAt: time.Now(),
	}, nil
}
