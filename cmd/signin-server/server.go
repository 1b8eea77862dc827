package main

import (
	"tsu-signin/internal/app/signin/controller"
	"tsu-signin/internal/middleware"
	"tsu-signin/internal/pkg/log"
	"tsu-signin/internal/pkg/metrics"
	"tsu-signin/internal/pkg/security"

	"github.com/labstack/echo/v4"
)

// newServer 创建 echo 实例并注册中间件和路由
func newServer(h *controller.HTTPHandler, logger log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// ========== 中间件配置（顺序很重要！） ==========
	// TraceID 最先执行，Logging 依赖它；Recovery 在 Logging 内层，panic 也能记录到 500
	e.Use(middleware.TraceID())
	e.Use(middleware.Logging(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(security.HeadersMiddleware(security.DefaultHeadersConfig())...)

	e.POST("/auth/signin", h.Signin)
	e.GET("/health", h.HealthCheck)
	e.GET("/metrics", metrics.EchoHandler())

	return e
}
