// File: internal/pkg/metrics/store_metrics.go
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StoreMetrics 凭据存储（Redis / Postgres）操作指标
type StoreMetrics struct {
	Operations        *prometheus.CounterVec   // 操作总数（按后端、操作类型和结果）
	OperationDuration *prometheus.HistogramVec // 操作延迟（按后端和操作类型）
}

var (
	defaultStoreOnce    sync.Once
	defaultStoreMetrics *StoreMetrics
)

// StoreOperationBuckets 存储操作通常很快，使用更细粒度的 buckets（秒）
var StoreOperationBuckets = []float64{
	0.001, // 1ms
	0.005, // 5ms
	0.01,  // 10ms
	0.025, // 25ms
	0.05,  // 50ms
	0.1,   // 100ms
	0.25,  // 250ms
	0.5,   // 500ms
	1,     // 1s
	2.5,   // 2.5s
}

// DefaultStoreMetrics 返回进程内共享的实例
func DefaultStoreMetrics() *StoreMetrics {
	defaultStoreOnce.Do(func() {
		defaultStoreMetrics = NewStoreMetricsWithRegistry("tsu", GetRegisterer())
	})
	return defaultStoreMetrics
}

// NewStoreMetricsWithRegistry 创建新的存储指标收集器（使用自定义注册表）
func NewStoreMetricsWithRegistry(namespace string, reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		reg = GetRegisterer()
	}
	factory := promauto.With(reg)

	return &StoreMetrics{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "credential_store",
				Name:      "operations_total",
				Help:      "Total number of credential store operations by backend, operation and result",
			},
			[]string{"backend", "operation", "result"},
		),

		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "credential_store",
				Name:      "operation_duration_seconds",
				Help:      "Credential store operation latency in seconds",
				Buckets:   StoreOperationBuckets,
			},
			[]string{"backend", "operation"},
		),
	}
}

// RecordOperation 记录一次存储操作。result 取 success / miss / error。
func (m *StoreMetrics) RecordOperation(backend, operation, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(backend, operation, result).Inc()
	m.OperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}
