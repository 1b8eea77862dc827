// File: internal/pkg/metrics/handler.go
package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EchoHandler 暴露 /metrics 端点
func EchoHandler() echo.HandlerFunc {
	h := promhttp.HandlerFor(GetGatherer(), promhttp.HandlerOpts{})
	return echo.WrapHandler(h)
}
