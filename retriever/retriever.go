package retriever

import (
	"context"

	"github.com/BaSui01/agentflow-nodes/types"
)

// Retriever maps a query to documents ordered from most to least relevant.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]types.Document, error)
}

// TopKer is implemented by retrievers that carry their own result limit.
type TopKer interface {
	TopK() int
}

// Func adapts a plain function to the Retriever interface.
type Func func(ctx context.Context, query string) ([]types.Document, error)

// Retrieve calls f.
func (f Func) Retrieve(ctx context.Context, query string) ([]types.Document, error) {
	return f(ctx, query)
}

// TopKOf returns r's own top-K, or fallback when r does not declare one.
func TopKOf(r Retriever, fallback int) int {
	if t, ok := r.(TopKer); ok && t.TopK() > 0 {
		return t.TopK()
	}
	return fallback
}
