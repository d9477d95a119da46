// Package metrics 提供基于Prometheus的指标收集
//
// 可观测性三支柱之一（Tracing、Metrics、Logging）：
// - Tracing（追踪）: 回答"为什么慢？"（见pkg/tracing）
// - Metrics（指标）: 回答"有多少？多快？"（本模块）
// - Logging（日志）: 回答"发生了什么？"
//
// 核心概念：
// 1. Counter（计数器）：只增不减的累计值（借出总数、逾期罚款总额）
// 2. Gauge（仪表盘）：可增可减的瞬时值（处理中的请求数）
// 3. Histogram（直方图）：观测值的分布，自动计算分位数（P50、P90、P99）
//
// 使用示例：
//
//	// 1. 初始化
//	metrics.InitMetrics()
//
//	// 2. 暴露/metrics端点
//	http.Handle("/metrics", promhttp.Handler())
//	go http.ListenAndServe(":9090", nil)
//
//	// 3. 业务代码中记录
//	metrics.IncCounter(metrics.LoansCheckedOutTotal)
//	metrics.ObserveHistogram(metrics.CheckoutDuration, time.Since(start).Seconds())
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal HTTP请求总数（按方法、路径、状态码分组）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时分布
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 处理中的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// LoansCheckedOutTotal 成功借出总数
	LoansCheckedOutTotal prometheus.Counter

	// LoansReturnedTotal 成功归还总数
	LoansReturnedTotal prometheus.Counter

	// CheckoutRejectedTotal 借阅被拒总数（按原因分组：limit_exceeded | unavailable | not_found）
	CheckoutRejectedTotal *prometheus.CounterVec

	// FineCollectedTotal 逾期罚款累计金额（单位：分）
	FineCollectedTotal prometheus.Counter

	// CheckoutDuration 借阅事务耗时分布
	CheckoutDuration prometheus.Histogram
)

var initOnce sync.Once

// InitMetrics 初始化并注册所有指标
// 使用sync.Once保证幂等（重复调用不会触发duplicate registration panic）
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartlibrary_http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smartlibrary_http_request_duration_seconds",
				Help:    "HTTP请求耗时分布",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "smartlibrary_http_requests_in_progress",
				Help: "处理中的HTTP请求数",
			},
		)

		LoansCheckedOutTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "smartlibrary_loans_checked_out_total",
				Help: "成功借出总数",
			},
		)

		LoansReturnedTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "smartlibrary_loans_returned_total",
				Help: "成功归还总数",
			},
		)

		CheckoutRejectedTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartlibrary_checkout_rejected_total",
				Help: "借阅被拒总数",
			},
			[]string{"reason"},
		)

		FineCollectedTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "smartlibrary_fine_collected_fen_total",
				Help: "逾期罚款累计金额（分）",
			},
		)

		CheckoutDuration = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "smartlibrary_checkout_duration_seconds",
				Help:    "借阅事务耗时分布",
				Buckets: prometheus.DefBuckets,
			},
		)

		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			HTTPRequestsInProgress,
			LoansCheckedOutTotal,
			LoansReturnedTotal,
			CheckoutRejectedTotal,
			FineCollectedTotal,
			CheckoutDuration,
		)
	})
}

// =========================================
// 辅助函数（封装nil判断，业务代码无需关心初始化顺序）
// =========================================

// IncCounter 递增计数器
func IncCounter(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}

// AddCounter 计数器增加指定值（如罚款金额）
func AddCounter(c prometheus.Counter, v float64) {
	if c != nil {
		c.Add(v)
	}
}

// IncCounterVec 按标签递增计数器
func IncCounterVec(c *prometheus.CounterVec, labels map[string]string) {
	if c != nil {
		c.With(labels).Inc()
	}
}

// IncGauge 递增仪表盘
func IncGauge(g prometheus.Gauge) {
	if g != nil {
		g.Inc()
	}
}

// DecGauge 递减仪表盘
func DecGauge(g prometheus.Gauge) {
	if g != nil {
		g.Dec()
	}
}

// ObserveHistogram 记录直方图观测值
func ObserveHistogram(h prometheus.Histogram, v float64) {
	if h != nil {
		h.Observe(v)
	}
}

// ObserveHistogramVec 按标签记录直方图观测值
func ObserveHistogramVec(h *prometheus.HistogramVec, labels map[string]string, v float64) {
	if h != nil {
		h.With(labels).Observe(v)
	}
}
