package nodes

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/agentflow-nodes/credential"
	"github.com/BaSui01/agentflow-nodes/retriever"
)

// NodeData 单次执行时宿主传入的节点数据
type NodeData struct {
	ID         string         `json:"id"`
	Inputs     ResolvedInputs `json:"inputs"`
	Credential string         `json:"credential,omitempty"` // 绑定到凭据槽的凭据 ID
	OutputName string         `json:"outputName,omitempty"` // 为空时使用第一个输出
}

// Recorder 节点运行指标
type Recorder interface {
	retriever.Recorder
	RecordNodeInit(node, output, status string, duration time.Duration)
}

// Options 运行时选项：凭据解析、日志与指标
type Options struct {
	Credentials credential.Resolver
	Logger      *zap.Logger
	Recorder    Recorder
}

// LoggerOrNop returns the configured logger or a no-op one.
func (o Options) LoggerOrNop() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Node 节点插件：不可变描述 + 每次执行的工厂方法。
// input 为本次运行的用户问题，作为查询类输入的兜底。
type Node interface {
	Descriptor() NodeDescriptor
	Init(ctx context.Context, data NodeData, input string, opts Options) (any, error)
}
