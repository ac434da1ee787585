package nodes

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/agentflow-nodes/internal/ctxkeys"
	"github.com/BaSui01/agentflow-nodes/types"
)

// Registry 节点注册表，宿主在加载插件时注册、在执行时按名称查找。
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]registered
}

type registered struct {
	desc NodeDescriptor
	node Node
}

// DefaultRegistry 进程级默认注册表
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{nodes: make(map[string]registered)}
}

// Register 注册节点。描述在注册时固化，之后不可修改。
func (r *Registry) Register(node Node) error {
	desc := node.Descriptor().Clone()
	if desc.Name == "" {
		return fmt.Errorf("node descriptor has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nodes[desc.Name]; exists {
		return fmt.Errorf("node %q already registered", desc.Name)
	}
	r.nodes[desc.Name] = registered{desc: desc, node: node}
	return nil
}

// MustRegister panics on error.
func (r *Registry) MustRegister(node Node) {
	if err := r.Register(node); err != nil {
		panic(err)
	}
}

// Get returns the node registered under name.
func (r *Registry) Get(name string) (Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.nodes[name]
	return reg.node, ok
}

// Descriptor returns a copy of the descriptor registered under name.
func (r *Registry) Descriptor(name string) (NodeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.nodes[name]
	if !ok {
		return NodeDescriptor{}, false
	}
	return reg.desc.Clone(), true
}

// Descriptors 返回全部描述副本，按分类、名称排序
func (r *Registry) Descriptors() []NodeDescriptor {
	r.mu.RLock()
	out := make([]NodeDescriptor, 0, len(r.nodes))
	for _, reg := range r.nodes {
		out = append(out, reg.desc.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Init 查找节点并执行工厂方法。ctx 中没有 RunID 时生成一个。
// 节点返回的错误原样上抛。
func (r *Registry) Init(ctx context.Context, name string, data NodeData, input string, opts Options) (any, error) {
	node, ok := r.Get(name)
	if !ok {
		return nil, types.NewError(types.ErrNodeNotFound, fmt.Sprintf("node %q is not registered", name))
	}

	runID, ok := ctxkeys.RunID(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = ctxkeys.WithRunID(ctx, runID)
	}

	logger := opts.LoggerOrNop().With(
		zap.String("node", name),
		zap.String("node_id", data.ID),
		zap.String("run_id", runID),
	)
	opts.Logger = logger

	start := time.Now()
	out, err := node.Init(ctx, data, input, opts)
	elapsed := time.Since(start)

	status := "success"
	if err != nil {
		status = string(types.GetErrorCode(err))
		if status == "" {
			status = "error"
		}
		logger.Warn("node init failed", zap.Duration("duration", elapsed), zap.Error(err))
	} else {
		logger.Debug("node initialized", zap.Duration("duration", elapsed))
	}
	if opts.Recorder != nil {
		opts.Recorder.RecordNodeInit(name, data.OutputName, status, elapsed)
	}
	return out, err
}
