// Package cohererank 实现 Cohere Rerank Retriever 节点：
// 用 Cohere 重排服务包装基础检索器，按相关性从高到低返回文档。
package cohererank

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/agentflow-nodes/credential"
	"github.com/BaSui01/agentflow-nodes/llm/rerank"
	"github.com/BaSui01/agentflow-nodes/nodes"
	"github.com/BaSui01/agentflow-nodes/retriever"
	"github.com/BaSui01/agentflow-nodes/types"
)

// Settings 解析后的节点参数
type Settings struct {
	Model           string
	Query           string
	TopK            int
	MaxChunksPerDoc int
}

// Node Cohere Rerank Retriever 节点
type Node struct {
	cfg rerank.CohereConfig
}

// New 创建节点。cfg 提供 BaseURL、Timeout 等客户端参数，APIKey 与 Model 在每次执行时覆盖。
func New(cfg rerank.CohereConfig) *Node {
	cfg.APIKey = ""
	return &Node{cfg: cfg}
}

// Register 将节点注册到 reg
func Register(reg *nodes.Registry, cfg rerank.CohereConfig) error {
	return reg.Register(New(cfg))
}

// Descriptor implements nodes.Node.
func (n *Node) Descriptor() nodes.NodeDescriptor {
	return Descriptor()
}

// Init 校验输入、解析凭据并构造重排检索器，按 OutputName 返回：
//   - retriever（默认）：检索器句柄
//   - document：以 query（或用户问题 input）检索得到的文档
//   - text：文档正文以换行拼接，换行与制表符转义
func (n *Node) Init(ctx context.Context, data nodes.NodeData, input string, opts nodes.Options) (any, error) {
	if err := data.Inputs.Validate(descriptor); err != nil {
		return nil, err
	}

	base, _, err := data.Inputs.Retriever(InputBaseRetriever)
	if err != nil {
		return nil, err
	}
	settings, err := ResolveSettings(data.Inputs, base)
	if err != nil {
		return nil, err
	}

	apiKey, err := resolveAPIKey(ctx, data.Credential, opts.Credentials)
	if err != nil {
		return nil, err
	}

	logger := opts.LoggerOrNop()
	cfg := n.cfg
	cfg.APIKey = apiKey
	cfg.Model = settings.Model

	compressor := retriever.NewCohereRerank(
		rerank.NewCohereProvider(cfg),
		settings.Model,
		settings.TopK,
		settings.MaxChunksPerDoc,
		retriever.WithLogger(logger),
		retriever.WithRecorder(opts.Recorder),
	)
	handle := retriever.NewContextualCompressionRetriever(base, compressor)

	logger.Debug("cohere rerank retriever created",
		zap.String("model", settings.Model),
		zap.Int("top_k", settings.TopK),
		zap.Int("max_chunks_per_doc", settings.MaxChunksPerDoc))

	switch data.OutputName {
	case "", OutputRetriever:
		return handle, nil
	case OutputDocument:
		return retrieve(ctx, handle, settings.Query, input)
	case OutputText:
		docs, err := retrieve(ctx, handle, settings.Query, input)
		if err != nil {
			return nil, err
		}
		return JoinPageContent(docs), nil
	default:
		return nil, types.NewConfigurationError("node %s has no output %q", NodeName, data.OutputName)
	}
}

// ResolveSettings 应用默认值：模型默认最新多语言模型，TopK 默认取基础检索器自身的 TopK，
// MaxChunksPerDoc 默认 10。
func ResolveSettings(in nodes.ResolvedInputs, base retriever.Retriever) (Settings, error) {
	s := Settings{
		Model:           rerank.DefaultModel,
		TopK:            retriever.TopKOf(base, DefaultTopK),
		MaxChunksPerDoc: rerank.DefaultMaxChunksPerDoc,
	}

	if model, ok, err := in.String(InputModel); err != nil {
		return Settings{}, err
	} else if ok {
		s.Model = model
	}

	if query, ok, err := in.String(InputQuery); err != nil {
		return Settings{}, err
	} else if ok {
		s.Query = query
	}

	if k, ok, err := in.Int(InputTopK); err != nil {
		return Settings{}, err
	} else if ok {
		if k < 1 {
			return Settings{}, types.NewConfigurationError("input %q must be at least 1, got %d", InputTopK, k)
		}
		s.TopK = k
	}

	if chunks, ok, err := in.Int(InputMaxChunksPerDoc); err != nil {
		return Settings{}, err
	} else if ok {
		if chunks < 1 {
			return Settings{}, types.NewConfigurationError("input %q must be at least 1, got %d", InputMaxChunksPerDoc, chunks)
		}
		s.MaxChunksPerDoc = chunks
	}

	return s, nil
}

func resolveAPIKey(ctx context.Context, id string, resolver credential.Resolver) (string, error) {
	if resolver == nil {
		return "", types.NewCredentialError("no credential resolver configured")
	}
	if id == "" {
		return "", types.NewCredentialError("credential slot %q is not bound", descriptor.Credential.Name)
	}

	rec, err := resolver.GetCredentialData(ctx, id)
	if err != nil {
		msg := "failed to resolve credential " + id
		if errors.Is(err, credential.ErrNotFound) {
			msg = "credential " + id + " not found"
		}
		return "", types.NewError(types.ErrCredential, msg).WithCause(err)
	}
	if rec.Name != "" && !descriptor.Credential.Accepts(rec.Name) {
		return "", types.NewCredentialError("credential %s has type %q, expected one of %v",
			id, rec.Name, descriptor.Credential.CredentialNames)
	}

	apiKey := strings.TrimSpace(credential.GetCredentialParam(CredentialParamAPIKey, rec))
	if apiKey == "" {
		return "", types.NewCredentialError("credential %s has no %s", id, CredentialParamAPIKey)
	}
	return apiKey, nil
}

func retrieve(ctx context.Context, r retriever.Retriever, query, input string) ([]types.Document, error) {
	if query == "" {
		query = input
	}
	if strings.TrimSpace(query) == "" {
		return nil, types.NewConfigurationError("node %s: no query and no user question", NodeName)
	}
	return r.Retrieve(ctx, query)
}

var textEscaper = strings.NewReplacer("\n", "\\n", "\t", "\\t")

// JoinPageContent 以换行拼接文档正文，并将换行与制表符转义为字面量。
func JoinPageContent(docs []types.Document) string {
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = d.PageContent
	}
	return textEscaper.Replace(strings.Join(parts, "\n"))
}
