package retriever

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BaSui01/agentflow-nodes/llm/rerank"
	"github.com/BaSui01/agentflow-nodes/types"
)

// RelevanceScoreKey is the metadata key holding the rerank score.
const RelevanceScoreKey = "relevance_score"

// Recorder receives rerank call measurements.
type Recorder interface {
	RecordRerank(provider, model, status string, duration time.Duration, docsIn, docsOut int)
}

// CohereRerank 使用重排服务对文档排序的压缩器。
type CohereRerank struct {
	provider        rerank.Provider
	model           string
	k               int
	maxChunksPerDoc int

	recorder Recorder
	tracer   trace.Tracer
	logger   *zap.Logger
}

// CohereRerankOption configures a CohereRerank.
type CohereRerankOption func(*CohereRerank)

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) CohereRerankOption {
	return func(c *CohereRerank) { c.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) CohereRerankOption {
	return func(c *CohereRerank) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCohereRerank 创建重排压缩器。model 为空时使用 provider 的默认模型，
// maxChunksPerDoc <= 0 时使用 rerank.DefaultMaxChunksPerDoc。
func NewCohereRerank(provider rerank.Provider, model string, k, maxChunksPerDoc int, opts ...CohereRerankOption) *CohereRerank {
	if model == "" {
		model = provider.Model()
	}
	if maxChunksPerDoc <= 0 {
		maxChunksPerDoc = rerank.DefaultMaxChunksPerDoc
	}

	c := &CohereRerank{
		provider:        provider,
		model:           model,
		k:               k,
		maxChunksPerDoc: maxChunksPerDoc,
		tracer:          otel.Tracer("github.com/BaSui01/agentflow-nodes/retriever"),
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("component", "cohere_rerank"))
	return c
}

func (c *CohereRerank) Model() string        { return c.model }
func (c *CohereRerank) TopK() int            { return c.k }
func (c *CohereRerank) MaxChunksPerDoc() int { return c.maxChunksPerDoc }

// Compress 调用一次重排服务，按相关性从高到低返回文档副本并写入 relevance_score。
// 空输入直接返回，不发起网络请求。
func (c *CohereRerank) Compress(ctx context.Context, docs []types.Document, query string) ([]types.Document, error) {
	if len(docs) == 0 {
		return []types.Document{}, nil
	}

	ctx, span := c.tracer.Start(ctx, "cohere_rerank.compress",
		trace.WithAttributes(
			attribute.String("rerank.model", c.model),
			attribute.Int("rerank.top_n", c.k),
			attribute.Int("rerank.max_chunks_per_doc", c.maxChunksPerDoc),
			attribute.Int("rerank.documents", len(docs)),
		))
	defer span.End()

	reqDocs := make([]rerank.Document, len(docs))
	for i, d := range docs {
		reqDocs[i] = rerank.Document{Text: d.PageContent, ID: d.ID}
	}

	start := time.Now()
	resp, err := c.provider.Rerank(ctx, &rerank.RerankRequest{
		Query:           query,
		Documents:       reqDocs,
		Model:           c.model,
		TopN:            c.k,
		MaxChunksPerDoc: c.maxChunksPerDoc,
	})
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.record("error", elapsed, len(docs), 0)
		c.logger.Warn("rerank request failed",
			zap.String("model", c.model),
			zap.Duration("duration", elapsed),
			zap.Error(err))
		return nil, err
	}

	out := make([]types.Document, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.Index < 0 || r.Index >= len(docs) {
			continue
		}
		doc := docs[r.Index].Clone()
		doc.Metadata[RelevanceScoreKey] = r.RelevanceScore
		out = append(out, doc)
	}
	if c.k > 0 && len(out) > c.k {
		out = out[:c.k]
	}

	c.record("success", elapsed, len(docs), len(out))
	c.logger.Debug("documents reranked",
		zap.String("model", c.model),
		zap.Int("input", len(docs)),
		zap.Int("output", len(out)),
		zap.Duration("duration", elapsed))

	return out, nil
}

func (c *CohereRerank) record(status string, d time.Duration, in, out int) {
	if c.recorder == nil {
		return
	}
	c.recorder.RecordRerank(c.provider.Name(), c.model, status, d, in, out)
}
