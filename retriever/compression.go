package retriever

import (
	"context"
	"fmt"

	"github.com/BaSui01/agentflow-nodes/types"
)

// DocumentCompressor post-processes documents returned by a base retriever.
type DocumentCompressor interface {
	Compress(ctx context.Context, docs []types.Document, query string) ([]types.Document, error)
}

// ContextualCompressionRetriever 包装基础检索器，用压缩器对结果做后处理（如重排）。
type ContextualCompressionRetriever struct {
	base       Retriever
	compressor DocumentCompressor
}

// NewContextualCompressionRetriever 创建压缩检索器。
func NewContextualCompressionRetriever(base Retriever, compressor DocumentCompressor) *ContextualCompressionRetriever {
	return &ContextualCompressionRetriever{
		base:       base,
		compressor: compressor,
	}
}

// Retrieve 先调用基础检索器，再交由压缩器处理。两步的错误都原样返回。
func (r *ContextualCompressionRetriever) Retrieve(ctx context.Context, query string) ([]types.Document, error) {
	docs, err := r.base.Retrieve(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("base retriever: %w", err)
	}
	return r.compressor.Compress(ctx, docs, query)
}

// Base returns the wrapped retriever.
func (r *ContextualCompressionRetriever) Base() Retriever { return r.base }

// Compressor returns the document compressor.
func (r *ContextualCompressionRetriever) Compressor() DocumentCompressor { return r.compressor }

// TopK reports the compressor's limit when it has one, else the base retriever's.
func (r *ContextualCompressionRetriever) TopK() int {
	if t, ok := r.compressor.(TopKer); ok {
		return t.TopK()
	}
	return TopKOf(r.base, 0)
}
