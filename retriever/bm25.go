package retriever

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"

	"github.com/BaSui01/agentflow-nodes/types"
)

// BM25Config BM25 检索配置
type BM25Config struct {
	K1       float64 `json:"k1" yaml:"k1"` // 1.2-2.0
	B        float64 `json:"b" yaml:"b"`   // 0.75
	TopK     int     `json:"top_k" yaml:"top_k"`
	MinScore float64 `json:"min_score" yaml:"min_score"`
}

// DefaultBM25Config 返回默认 BM25 配置
func DefaultBM25Config() BM25Config {
	return BM25Config{
		K1:   1.5,
		B:    0.75,
		TopK: 4,
	}
}

// BM25Retriever 基于内存文档集的关键词检索器，可作为重排节点的基础检索器。
type BM25Retriever struct {
	config BM25Config

	mu        sync.RWMutex
	documents []types.Document
	terms     [][]string
	avgDocLen float64
	idf       map[string]float64

	logger *zap.Logger
}

// NewBM25Retriever 创建 BM25 检索器
func NewBM25Retriever(config BM25Config, logger *zap.Logger) *BM25Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TopK <= 0 {
		config.TopK = DefaultBM25Config().TopK
	}
	return &BM25Retriever{
		config: config,
		idf:    make(map[string]float64),
		logger: logger.With(zap.String("component", "bm25_retriever")),
	}
}

// TopK 返回检索器自身的结果数量上限
func (r *BM25Retriever) TopK() int { return r.config.TopK }

// IndexDocuments 替换索引中的文档并重新计算统计信息
func (r *BM25Retriever) IndexDocuments(docs []types.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.documents = make([]types.Document, len(docs))
	copy(r.documents, docs)
	r.terms = make([][]string, len(docs))
	r.idf = make(map[string]float64)

	totalLen := 0
	termDocCount := make(map[string]int)
	for i, doc := range r.documents {
		terms := tokenize(doc.PageContent)
		r.terms[i] = terms
		totalLen += len(terms)

		seen := make(map[string]bool)
		for _, term := range terms {
			if !seen[term] {
				termDocCount[term]++
				seen[term] = true
			}
		}
	}

	r.avgDocLen = 0
	if len(r.documents) > 0 {
		r.avgDocLen = float64(totalLen) / float64(len(r.documents))
	}

	n := float64(len(r.documents))
	for term, df := range termDocCount {
		r.idf[term] = math.Log((n-float64(df)+0.5)/(float64(df)+0.5) + 1.0)
	}

	r.logger.Info("documents indexed", zap.Int("count", len(docs)))
}

type scoredDoc struct {
	idx   int
	score float64
}

// Retrieve 返回得分最高的 TopK 个文档（得分为 0 的文档不返回）
func (r *BM25Retriever) Retrieve(ctx context.Context, query string) ([]types.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	queryTerms := tokenize(query)
	scored := make([]scoredDoc, 0, len(r.documents))

	for i, terms := range r.terms {
		termFreq := make(map[string]int, len(terms))
		for _, term := range terms {
			termFreq[term]++
		}

		score := 0.0
		docLen := float64(len(terms))
		for _, qTerm := range queryTerms {
			tf, ok := termFreq[qTerm]
			if !ok {
				continue
			}
			numerator := float64(tf) * (r.config.K1 + 1.0)
			denominator := float64(tf) + r.config.K1*(1.0-r.config.B+r.config.B*(docLen/r.avgDocLen))
			score += r.idf[qTerm] * (numerator / denominator)
		}

		if score > 0 && score >= r.config.MinScore {
			scored = append(scored, scoredDoc{idx: i, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > r.config.TopK {
		scored = scored[:r.config.TopK]
	}

	out := make([]types.Document, len(scored))
	for i, s := range scored {
		doc := r.documents[s.idx].Clone()
		doc.Metadata["bm25_score"] = s.score
		out[i] = doc
	}
	return out, nil
}

// 简化分词：转小写、去标点并按空白分割
func tokenize(text string) []string {
	text = strings.ToLower(text)
	return strings.FieldsFunc(text, func(r rune) bool {
		return !(r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r))
	})
}
