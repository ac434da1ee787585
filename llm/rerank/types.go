// 软件包 rerank 提供重排服务的请求/响应模型与 Cohere 客户端实现.
package rerank

import (
	"context"
	"time"
)

// 支持的 Cohere 重排模型。
const (
	ModelEnglishV2      = "rerank-english-v2.0"
	ModelMultilingualV2 = "rerank-multilingual-v2.0"
	ModelEnglishV3      = "rerank-english-v3.0"
	ModelMultilingualV3 = "rerank-multilingual-v3.0"

	// DefaultModel 是未指定模型时使用的最新多语言模型。
	DefaultModel = ModelMultilingualV3

	// DefaultMaxChunksPerDoc 每个文档内部切分的最大块数。
	DefaultMaxChunksPerDoc = 10
)

// Models returns the selectable rerank models in display order.
func Models() []string {
	return []string{ModelEnglishV2, ModelMultilingualV2, ModelEnglishV3, ModelMultilingualV3}
}

// RerankRequest 重新排序请求。
type RerankRequest struct {
	Query           string     `json:"query"`
	Documents       []Document `json:"documents"`
	Model           string     `json:"model,omitempty"`
	TopN            int        `json:"top_n,omitempty"`              // Return top N results
	ReturnDocuments bool       `json:"return_documents,omitempty"`   // Include document text in response
	MaxChunksPerDoc int        `json:"max_chunks_per_doc,omitempty"` // For long documents
}

// Document 待重排的文档。
type Document struct {
	Text string `json:"text"`
	ID   string `json:"id,omitempty"`
}

// RerankResponse 重排响应, Results 按相关性从高到低排列.
type RerankResponse struct {
	ID        string         `json:"id,omitempty"`
	Provider  string         `json:"provider"`
	Model     string         `json:"model"`
	Results   []RerankResult `json:"results"`
	Usage     RerankUsage    `json:"usage"`
	CreatedAt time.Time      `json:"created_at,omitempty"`
}

// RerankResult 单条重排结果.
type RerankResult struct {
	Index          int      `json:"index"`           // Original index in input
	RelevanceScore float64  `json:"relevance_score"` // 0-1 normalized score
	Document       Document `json:"document,omitempty"`
}

// RerankUsage 使用统计.
type RerankUsage struct {
	SearchUnits int `json:"search_units,omitempty"`
}

// Provider 重排服务客户端接口.
type Provider interface {
	// Rerank 根据查询的关联性重新排序文档。
	Rerank(ctx context.Context, req *RerankRequest) (*RerankResponse, error)

	// Name 返回提供者名称。
	Name() string

	// Model 返回客户端配置的默认模型。
	Model() string

	// MaxDocuments 返回单次请求支持的最大文档数量。
	MaxDocuments() int
}
