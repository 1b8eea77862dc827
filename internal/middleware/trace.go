package middleware

import (
	"tsu-signin/internal/pkg/contextkeys"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// maxTraceIDLen 调用方传入的 Trace ID 超过该长度时重新生成
const maxTraceIDLen = 128

// TraceID 确保每个请求都有一个唯一的 Trace ID。
// 优先使用 X-Request-ID 请求头，不存在时生成新的 UUID；
// Trace ID 会存入请求 context 并写回响应头。
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			traceID := req.Header.Get(echo.HeaderXRequestID)
			if traceID == "" || len(traceID) > maxTraceIDLen {
				traceID = uuid.NewString()
			}

			c.SetRequest(req.WithContext(contextkeys.WithTraceID(req.Context(), traceID)))
			c.Response().Header().Set(echo.HeaderXRequestID, traceID)

			return next(c)
		}
	}
}
