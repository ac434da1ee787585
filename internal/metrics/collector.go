// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Collector 指标收集器，实现 nodes.Recorder
type Collector struct {
	// 重排指标
	rerankRequestsTotal   *prometheus.CounterVec
	rerankRequestDuration *prometheus.HistogramVec
	rerankDocuments       *prometheus.CounterVec

	// 节点指标
	nodeInitsTotal   *prometheus.CounterVec
	nodeInitDuration *prometheus.HistogramVec

	// 数据库指标
	dbConnectionsOpen *prometheus.GaugeVec
	dbConnectionsIdle *prometheus.GaugeVec

	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// NewCollector 创建指标收集器。reg 为 nil 时注册到 prometheus 默认注册表。
func NewCollector(namespace string, reg *prometheus.Registry, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer, gatherer = reg, reg
	}
	factory := promauto.With(registerer)

	c := &Collector{
		gatherer: gatherer,
		logger:   logger.With(zap.String("component", "metrics")),
	}

	c.rerankRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rerank_requests_total",
			Help:      "Total number of rerank requests",
		},
		[]string{"provider", "model", "status"},
	)

	c.rerankRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rerank_request_duration_seconds",
			Help:      "Rerank request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider", "model"},
	)

	c.rerankDocuments = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rerank_documents_total",
			Help:      "Documents sent to and returned by the rerank service",
		},
		[]string{"provider", "model", "direction"}, // direction: in, out
	)

	c.nodeInitsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_inits_total",
			Help:      "Total number of node initializations",
		},
		[]string{"node", "output", "status"},
	)

	c.nodeInitDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "node_init_duration_seconds",
			Help:      "Node initialization duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node"},
	)

	c.dbConnectionsOpen = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_open",
			Help:      "Number of open database connections",
		},
		[]string{"database"},
	)

	c.dbConnectionsIdle = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_idle",
			Help:      "Number of idle database connections",
		},
		[]string{"database"},
	)

	c.logger.Debug("metrics collector initialized", zap.String("namespace", namespace))
	return c
}

// =============================================================================
// 🎯 记录方法
// =============================================================================

// RecordRerank 记录一次重排调用
func (c *Collector) RecordRerank(provider, model, status string, duration time.Duration, docsIn, docsOut int) {
	c.rerankRequestsTotal.WithLabelValues(provider, model, status).Inc()
	c.rerankRequestDuration.WithLabelValues(provider, model).Observe(duration.Seconds())
	c.rerankDocuments.WithLabelValues(provider, model, "in").Add(float64(docsIn))
	c.rerankDocuments.WithLabelValues(provider, model, "out").Add(float64(docsOut))
}

// RecordNodeInit 记录一次节点初始化。output 为空时记为 default。
func (c *Collector) RecordNodeInit(node, output, status string, duration time.Duration) {
	if output == "" {
		output = "default"
	}
	c.nodeInitsTotal.WithLabelValues(node, output, status).Inc()
	c.nodeInitDuration.WithLabelValues(node).Observe(duration.Seconds())
}

// RecordDBConnections 更新连接池状态
func (c *Collector) RecordDBConnections(database string, open, idle int) {
	c.dbConnectionsOpen.WithLabelValues(database).Set(float64(open))
	c.dbConnectionsIdle.WithLabelValues(database).Set(float64(idle))
}

// Handler 返回 /metrics 处理器
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
