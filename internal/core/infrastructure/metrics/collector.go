// Package metrics 提供合约调用与行情抓取的 Prometheus 指标
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "telliot"

// Collector 指标收集器
//
// 所有指标注册到构造时传入的注册表，测试可以使用独立注册表。
type Collector struct {
	invocations      *prometheus.CounterVec
	invocationTiming *prometheus.HistogramVec
	fetches          *prometheus.CounterVec
	fetchAttempts    *prometheus.HistogramVec
}

// NewCollector 创建并注册指标
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "binding",
				Name:      "invocations_total",
				Help:      "Contract invocations by outcome status",
			},
			[]string{"contract", "operation", "status"},
		),
		invocationTiming: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "binding",
				Name:      "invocation_duration_seconds",
				Help:      "Contract invocation round trip in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"contract", "operation"},
		),
		fetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "feed",
				Name:      "fetches_total",
				Help:      "External feed fetches by result",
			},
			[]string{"feed", "result"},
		),
		fetchAttempts: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "feed",
				Name:      "fetch_attempts",
				Help:      "Attempts used per feed fetch",
				Buckets:   []float64{1, 2, 3, 5, 10},
			},
			[]string{"feed"},
		),
	}
}

// ObserveInvocation 记录一次合约调用
func (c *Collector) ObserveInvocation(contract, operation, status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.invocations.WithLabelValues(contract, operation, status).Inc()
	c.invocationTiming.WithLabelValues(contract, operation).Observe(elapsed.Seconds())
}

// ObserveFetch 记录一次行情抓取
func (c *Collector) ObserveFetch(feed string, attempts int, ok bool) {
	if c == nil {
		return
	}
	result := "unavailable"
	if ok {
		result = "ok"
	}
	c.fetches.WithLabelValues(feed, result).Inc()
	c.fetchAttempts.WithLabelValues(feed).Observe(float64(attempts))
}
