// Package metrics 基于Prometheus的指标收集
//
// # 指标类型
//
//   - Counter（计数器）：只增不减，如请求总数、批量操作次数
//   - Gauge（仪表盘）：可增可减，如正在处理的请求数、熔断器状态
//   - Histogram（直方图）：观测值分布，如请求耗时、批量条数
//
// # 命名规范
//
//   - Counter以_total结尾
//   - Histogram以单位结尾（_seconds）
//   - 避免高基数标签：path使用路由模板（/api/v1/books/:id）而不是实际URL
//
// # 使用示例
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
//
// 所有方法对nil接收者安全：未启用指标时传nil即可
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 应用指标集合
type Metrics struct {
	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// BatchOperationsTotal 批量写操作次数
	// 标签：operation（create/update）、result（success/rollback）
	BatchOperationsTotal *prometheus.CounterVec

	// BatchItems 每次批量操作的条数
	BatchItems *prometheus.HistogramVec

	// BatchDuration 批量操作耗时（含提交/回滚）
	BatchDuration *prometheus.HistogramVec

	// CacheRequestsTotal 图书缓存访问
	// 标签：result（hit/miss/error/rejected）
	CacheRequestsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// MessagesPublishedTotal 事件发布
	// 标签：routing_key、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec
}

// New 创建并注册全部指标
// reg为nil时使用prometheus.DefaultRegisterer
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP请求耗时（秒）",
				// 1ms、10ms、100ms、500ms、1s、5s、10s
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInProgress: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		),
		BatchOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "book_batch_operations_total",
				Help: "图书批量写操作次数",
			},
			[]string{"operation", "result"},
		),
		BatchItems: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "book_batch_items",
				Help:    "每次批量写操作的条数",
				Buckets: []float64{1, 5, 10, 50, 100, 500, 1000},
			},
			[]string{"operation"},
		),
		BatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "book_batch_duration_seconds",
				Help:    "图书批量写操作耗时（秒）",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"operation"},
		),
		CacheRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "book_cache_requests_total",
				Help: "图书缓存访问次数",
			},
			[]string{"result"},
		),
		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
			},
			[]string{"name"},
		),
		MessagesPublishedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "事件发布次数",
			},
			[]string{"routing_key", "result"},
		),
	}
}

// RequestStarted 请求开始
func (m *Metrics) RequestStarted() {
	if m == nil {
		return
	}
	m.HTTPRequestsInProgress.Inc()
}

// RequestFinished 请求结束（path使用路由模板）
func (m *Metrics) RequestFinished(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsInProgress.Dec()
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveBatch 记录一次批量写操作
func (m *Metrics) ObserveBatch(operation string, items int, committed bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if !committed {
		result = "rollback"
	}
	m.BatchOperationsTotal.WithLabelValues(operation, result).Inc()
	m.BatchItems.WithLabelValues(operation).Observe(float64(items))
	m.BatchDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// CacheResult 记录缓存访问结果
func (m *Metrics) CacheResult(result string) {
	if m == nil {
		return
	}
	m.CacheRequestsTotal.WithLabelValues(result).Inc()
}

// SetBreakerState 更新熔断器状态
func (m *Metrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// MessagePublished 记录事件发布结果
func (m *Metrics) MessagePublished(routingKey string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.MessagesPublishedTotal.WithLabelValues(routingKey, result).Inc()
}
