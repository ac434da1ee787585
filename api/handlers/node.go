package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/BaSui01/agentflow-nodes/nodes"
	"github.com/BaSui01/agentflow-nodes/retriever"
	"github.com/BaSui01/agentflow-nodes/types"
)

// =============================================================================
// 🧩 节点 Handler
// =============================================================================

// 节点输出名。检索器句柄无法通过 HTTP 返回，只支持文档与文本输出。
const (
	outputDocument = "document"
	outputText     = "text"
)

// baseRetrieverInput 节点约定的基础检索器输入名
const baseRetrieverInput = "baseRetriever"

// NodeHandler 暴露注册表中的节点：描述查询与一次性检索
type NodeHandler struct {
	registry *nodes.Registry
	opts     nodes.Options
	bm25     retriever.BM25Config
	logger   *zap.Logger
}

// NewNodeHandler 创建节点处理器。opts 提供凭据解析与指标，每次请求复用。
func NewNodeHandler(registry *nodes.Registry, opts nodes.Options, logger *zap.Logger) *NodeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NodeHandler{
		registry: registry,
		opts:     opts,
		bm25:     retriever.DefaultBM25Config(),
		logger:   logger.With(zap.String("component", "node_handler")),
	}
}

// RetrieveRequest 检索请求。Documents 作为候选集由 BM25 基础检索器召回后交给节点。
type RetrieveRequest struct {
	Documents  []types.Document `json:"documents"`
	Inputs     map[string]any   `json:"inputs,omitempty"`
	Credential string           `json:"credential"`
	Output     string           `json:"output,omitempty"`
	Question   string           `json:"question,omitempty"`
	// 基础检索器的 TopK，0 时使用默认值
	BaseTopK int `json:"base_top_k,omitempty"`
}

// RetrieveResponse 检索结果，按 output 填充其一
type RetrieveResponse struct {
	Documents []types.Document `json:"documents,omitempty"`
	Text      *string          `json:"text,omitempty"`
}

// HandleListNodes GET /api/v1/nodes
func (h *NodeHandler) HandleListNodes(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.registry.Descriptors())
}

// HandleGetNode GET /api/v1/nodes/{name}
func (h *NodeHandler) HandleGetNode(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	desc, ok := h.registry.Descriptor(name)
	if !ok {
		WriteError(w, r, types.NewError(types.ErrNodeNotFound, "node "+name+" is not registered"), h.logger)
		return
	}
	WriteSuccess(w, r, desc)
}

// HandleRetrieve POST /api/v1/nodes/{name}/retrieve
func (h *NodeHandler) HandleRetrieve(w http.ResponseWriter, r *http.Request) {
	var req RetrieveRequest
	if err := DecodeJSONBody(w, r, &req); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	output := req.Output
	switch output {
	case "":
		output = outputDocument
	case outputDocument, outputText:
	default:
		WriteError(w, r, types.NewError(types.ErrInvalidRequest, "output must be document or text"), h.logger)
		return
	}
	if len(req.Documents) == 0 {
		WriteError(w, r, types.NewError(types.ErrInvalidRequest, "documents must not be empty"), h.logger)
		return
	}

	cfg := h.bm25
	if req.BaseTopK > 0 {
		cfg.TopK = req.BaseTopK
	}
	base := retriever.NewBM25Retriever(cfg, h.logger)
	base.IndexDocuments(req.Documents)

	inputs := make(nodes.ResolvedInputs, len(req.Inputs)+1)
	for k, v := range req.Inputs {
		inputs[k] = v
	}
	inputs[baseRetrieverInput] = base

	opts := h.opts
	opts.Logger = h.logger
	out, err := h.registry.Init(r.Context(), r.PathValue("name"), nodes.NodeData{
		ID:         requestID(r),
		Inputs:     inputs,
		Credential: req.Credential,
		OutputName: output,
	}, req.Question, opts)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	var resp RetrieveResponse
	switch v := out.(type) {
	case []types.Document:
		resp.Documents = v
	case string:
		resp.Text = &v
	default:
		WriteError(w, r, types.NewError(types.ErrInternalError, "node returned an unsupported output"), h.logger)
		return
	}
	WriteSuccess(w, r, resp)
}

// Register 挂载节点路由
func (h *NodeHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/nodes", h.HandleListNodes)
	mux.HandleFunc("GET /api/v1/nodes/{name}", h.HandleGetNode)
	mux.HandleFunc("POST /api/v1/nodes/{name}/retrieve", h.HandleRetrieve)
}
