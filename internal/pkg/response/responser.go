package response

import (
	"encoding/json"
	"net/http"

	"tsu-signin/internal/pkg/log"

	"github.com/labstack/echo/v4"
)

// JSON 将 body 以JSON格式写入 http.ResponseWriter
// 统一了所有接口的输出方式：状态行 = statusCode，响应体 = body 的 JSON
func JSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if body == nil {
		return
	}
	// header 已经写出，序列化失败只能记录日志
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("写入JSON响应失败", err, log.Int("status_code", statusCode))
	}
}

// EchoJSON Echo 适配器，响应已提交时不再重复写入
func EchoJSON(c echo.Context, statusCode int, body any) error {
	if c.Response().Committed {
		return nil
	}
	JSON(c.Response(), statusCode, body)
	return nil
}
