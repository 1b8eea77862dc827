// Package security 提供登录服务用到的密码哈希、令牌签发以及 HTTP 安全头
package security

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HeadersConfig 安全头和 CORS 配置
type HeadersConfig struct {
	AllowOrigins          []string
	ContentSecurityPolicy string
	HSTSMaxAge            int
}

// DefaultHeadersConfig 返回默认配置
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		AllowOrigins:          []string{"*"}, // 生产环境应该限制具体域名
		ContentSecurityPolicy: "default-src 'none'",
		HSTSMaxAge:            31536000, // 1 year
	}
}

// HeadersMiddleware 组合 Secure、CORS 和禁止缓存三个中间件。
// 登录响应里带有访问令牌，任何代理都不应缓存。
func HeadersMiddleware(config HeadersConfig) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.SecureWithConfig(middleware.SecureConfig{
			XSSProtection:         "1; mode=block",
			ContentTypeNosniff:    "nosniff",
			XFrameOptions:         "DENY",
			HSTSMaxAge:            config.HSTSMaxAge,
			ContentSecurityPolicy: config.ContentSecurityPolicy,
		}),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: config.AllowOrigins,
			AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
			AllowHeaders: []string{
				echo.HeaderOrigin,
				echo.HeaderContentType,
				echo.HeaderAccept,
				echo.HeaderXRequestID,
			},
			ExposeHeaders: []string{echo.HeaderXRequestID},
		}),
		noStore,
	}
}

func noStore(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("Cache-Control", "no-store")
		h.Set("Pragma", "no-cache")
		return next(c)
	}
}
