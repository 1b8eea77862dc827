package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SigninMetrics 追踪登录链路的核心指标。
type SigninMetrics struct {
	Duration *prometheus.HistogramVec
	Outcomes *prometheus.CounterVec
}

var (
	defaultSigninOnce    sync.Once
	defaultSigninMetrics *SigninMetrics

	signinDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.3, 0.5, 1, 2}
)

// DefaultSigninMetrics 返回进程内共享的实例，首次调用时注册到当前 Registerer。
func DefaultSigninMetrics() *SigninMetrics {
	defaultSigninOnce.Do(func() {
		defaultSigninMetrics = NewSigninMetricsWithRegistry("tsu", GetRegisterer())
	})
	return defaultSigninMetrics
}

// NewSigninMetricsWithRegistry 创建 SigninMetrics，允许 tests 注入自定义 registry。
func NewSigninMetricsWithRegistry(namespace string, reg prometheus.Registerer) *SigninMetrics {
	if reg == nil {
		reg = GetRegisterer()
	}
	factory := promauto.With(reg)

	return &SigninMetrics{
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "signin_duration_seconds",
				Help:      "Latency histogram for the signin pipeline grouped by outcome",
				Buckets:   signinDurationBuckets,
			},
			[]string{"outcome"},
		),

		Outcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "signin_outcomes_total",
				Help:      "Count of signin attempts by outcome (success, bad_request, unauthorized, server_error)",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveOutcome 记录一次登录的结果和耗时。
func (m *SigninMetrics) ObserveOutcome(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.Duration.WithLabelValues(outcome).Observe(duration.Seconds())
	m.Outcomes.WithLabelValues(outcome).Inc()
}
