package middleware

import (
	"strings"
	"time"

	"tsu-signin/internal/pkg/log"

	"github.com/labstack/echo/v4"
)

// DefaultSkipPaths 不记录访问日志的路径
var DefaultSkipPaths = []string{"/health", "/metrics"}

// Logging 记录每个请求的方法、路径、状态码和耗时。
// 登录请求体包含密码，这里从不记录请求体和请求头。
func Logging(logger log.Logger, skipPaths ...string) echo.MiddlewareFunc {
	if logger == nil {
		logger = log.GetLogger()
	}
	if skipPaths == nil {
		skipPaths = DefaultSkipPaths
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if shouldSkip(c.Request().URL.Path, skipPaths) {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				// 交给 echo 的 HTTPErrorHandler 写响应，保证记录的是最终状态码
				c.Error(err)
			}

			req := c.Request()
			log.LogHTTPRequest(req.Context(), logger, req.Method, req.URL.Path,
				c.Response().Status, time.Since(start).Milliseconds(), c.RealIP())
			return nil
		}
	}
}

func shouldSkip(path string, skipPaths []string) bool {
	for _, skipPath := range skipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}
	return false
}
