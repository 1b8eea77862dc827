package middleware

import (
	"fmt"

	"tsu-signin/internal/app/signin/domain"
	"tsu-signin/internal/pkg/contextkeys"
	"tsu-signin/internal/pkg/log"
	"tsu-signin/internal/pkg/response"
	"tsu-signin/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
)

// Recovery 捕获 handler 中的 panic，记录日志并返回通用的 ServerError
func Recovery(logger log.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = log.GetLogger()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				ctx := c.Request().Context()

				appErr := xerrors.FromCode(xerrors.CodeInternalError).
					WithService("echo-middleware", "recovery").
					WithMetadata("panic_value", fmt.Sprintf("%v", r)).
					WithMetadata("path", c.Request().URL.Path).
					WithMetadata("method", c.Request().Method)
				if traceID, ok := contextkeys.GetTraceID(ctx); ok {
					appErr.WithTraceID(traceID)
				}
				log.LogAppError(ctx, logger, "应用程序 panic", appErr)

				resp := domain.ServerErrorResponse()
				err = response.EchoJSON(c, resp.StatusCode, resp.Body)
			}()

			return next(c)
		}
	}
}
