// File: internal/pkg/xerrors/codes.go
package xerrors

import (
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型（类型安全）
type ErrorCode int

// IsValid 检查错误码是否在预定义列表中
func (c ErrorCode) IsValid() bool {
	_, exists := codeMessages[c]
	return exists
}

// String 返回错误码的字符串表示
func (c ErrorCode) String() string {
	if msg, ok := codeMessages[c]; ok {
		return fmt.Sprintf("%d (%s)", c, msg)
	}
	return fmt.Sprintf("%d (undefined)", c)
}

// Message 返回错误码对应的消息
func (c ErrorCode) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return codeMessages[CodeInternalError]
}

// -----------------------------------------------------------------------------
// 业务错误码统一定义
// 按领域分段：1xxxxx 通用，2xxxxx 认证，7xxxxx 外部依赖。
// -----------------------------------------------------------------------------
const (
	// 1xxxxx: 通用错误码
	CodeSuccess        ErrorCode = 100000 // 操作成功
	CodeInternalError  ErrorCode = 100001 // 内部服务错误
	CodeInvalidParam   ErrorCode = 100002 // 参数格式错误
	CodeInvalidRequest ErrorCode = 100003 // 请求结构错误（缺少 body）
	CodeMissingParam   ErrorCode = 100004 // 缺少必填参数

	// 2xxxxx: 认证相关错误码
	CodeAuthenticationFailed ErrorCode = 200001 // 认证失败
	CodeInvalidCredentials   ErrorCode = 200004 // 凭据无效

	// 7xxxxx: 外部服务错误码
	CodeExternalServiceError ErrorCode = 700001 // 外部服务错误
	CodeDatabaseError        ErrorCode = 700003 // 数据库错误
	CodeCacheError           ErrorCode = 700004 // 缓存服务错误
	CodeMessageQueueError    ErrorCode = 700005 // 消息队列错误
)

// -----------------------------------------------------------------------------
// 错误消息映射
// 对外暴露的消息只由错误码（和参数名）决定。
// -----------------------------------------------------------------------------
var codeMessages = map[ErrorCode]string{
	CodeSuccess:        "OK",
	CodeInternalError:  "Internal error",
	CodeInvalidParam:   "Invalid param",
	CodeInvalidRequest: "Malformed request",
	CodeMissingParam:   "Missing param",

	CodeAuthenticationFailed: "Unauthorized",
	CodeInvalidCredentials:   "Invalid credentials",

	CodeExternalServiceError: "External service error",
	CodeDatabaseError:        "Database error",
	CodeCacheError:           "Cache error",
	CodeMessageQueueError:    "Message queue error",
}

// GetHTTPStatus 根据业务错误码获取HTTP状态码
// 请求结构错误（CodeInvalidRequest）按服务端错误处理：连校验的前提都不满足。
func GetHTTPStatus(code ErrorCode) int {
	switch {
	case code == CodeSuccess:
		return http.StatusOK
	case code == CodeMissingParam || code == CodeInvalidParam:
		return http.StatusBadRequest
	case code == CodeAuthenticationFailed || code == CodeInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// getCategoryByCode 根据错误码获取分类
func getCategoryByCode(code ErrorCode) string {
	switch {
	case code >= 100000 && code < 200000:
		return "system"
	case code >= 200000 && code < 300000:
		return "authentication"
	case code >= 700000 && code < 800000:
		return "external"
	default:
		return "unknown"
	}
}

// getLevelByCode 根据错误码获取级别
func getLevelByCode(code ErrorCode) ErrorLevel {
	switch {
	case code == CodeSuccess:
		return LevelInfo
	case code >= 100002 && code <= 100004, code >= 200000 && code < 300000:
		return LevelWarn
	case code >= 700001:
		return LevelCritical
	default:
		return LevelError
	}
}

// isRetryableByCode 根据错误码判断是否可重试
func isRetryableByCode(code ErrorCode) bool {
	switch code {
	case CodeExternalServiceError, CodeDatabaseError, CodeCacheError, CodeMessageQueueError:
		return true
	default:
		return false
	}
}
