package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigninMetrics_ObserveOutcome(t *testing.T) {
	tests := []struct {
		name    string
		outcome string
		label   string
	}{
		{name: "成功", outcome: "success", label: "success"},
		{name: "参数错误", outcome: "bad_request", label: "bad_request"},
		{name: "空标签归为 unknown", outcome: "", label: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			m := NewSigninMetricsWithRegistry("test", reg)

			m.ObserveOutcome(tt.outcome, 20*time.Millisecond)
			m.ObserveOutcome(tt.outcome, 40*time.Millisecond)

			assert.Equal(t, float64(2), testutil.ToFloat64(m.Outcomes.WithLabelValues(tt.label)))
			assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
		})
	}
}

func TestSigninMetrics_NilSafe(t *testing.T) {
	var m *SigninMetrics
	assert.NotPanics(t, func() { m.ObserveOutcome("success", time.Second) })

	var s *StoreMetrics
	assert.NotPanics(t, func() { s.RecordOperation("redis", "HGETALL", "success", time.Millisecond) })
}

func TestStoreMetrics_RecordOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStoreMetricsWithRegistry("test", reg)

	m.RecordOperation("redis", "HGETALL", "success", 2*time.Millisecond)
	m.RecordOperation("redis", "HGETALL", "miss", time.Millisecond)
	m.RecordOperation("postgres", "select", "error", 30*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Operations.WithLabelValues("redis", "HGETALL", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Operations.WithLabelValues("redis", "HGETALL", "miss")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Operations.WithLabelValues("postgres", "select", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.OperationDuration))
}

func TestEchoHandler_ServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	SetRegistry(reg)
	t.Cleanup(func() { SetRegistry(nil) })

	m := NewSigninMetricsWithRegistry("test", reg)
	m.ObserveOutcome("unauthorized", time.Millisecond)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, EchoHandler()(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `test_signin_outcomes_total{outcome="unauthorized"} 1`))
}
