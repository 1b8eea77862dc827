// File: internal/pkg/xerrors/errors.go
package xerrors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// ErrorLevel 错误级别
type ErrorLevel int

const (
	LevelInfo ErrorLevel = iota
	LevelWarn
	LevelError
	LevelCritical
)

func (l ErrorLevel) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ErrorContext 错误上下文信息
type ErrorContext struct {
	TraceID   string                 `json:"trace_id,omitempty"`
	Service   string                 `json:"service,omitempty"`
	Operation string                 `json:"operation,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// AppError 内部错误，只用于日志和分类，不直接返回给调用方
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`

	Level    ErrorLevel `json:"level,omitempty"`
	Category string     `json:"category,omitempty"`

	Context   *ErrorContext `json:"context,omitempty"`
	Timestamp time.Time     `json:"timestamp,omitempty"`

	// 调试信息
	Stack string `json:"stack,omitempty"`
	File  string `json:"file,omitempty"`
	Line  int    `json:"line,omitempty"`

	Retryable bool `json:"retryable,omitempty"`
}

// Error 实现标准 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap 接口
func (e *AppError) Unwrap() error {
	return e.Err
}

// LogValue 实现 slog.LogValuer 接口
func (e *AppError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("code", int(e.Code)),
		slog.String("message", e.Message),
		slog.String("level", e.Level.String()),
		slog.String("category", e.Category),
		slog.Bool("retryable", e.Retryable),
	}

	if e.Context != nil {
		if e.Context.TraceID != "" {
			attrs = append(attrs, slog.String("trace_id", e.Context.TraceID))
		}
		if e.Context.Service != "" {
			attrs = append(attrs, slog.String("service", e.Context.Service))
		}
		if e.Context.Operation != "" {
			attrs = append(attrs, slog.String("operation", e.Context.Operation))
		}
		for k, v := range e.Context.Metadata {
			attrs = append(attrs, slog.Any(k, v))
		}
	}

	if e.Err != nil {
		attrs = append(attrs, slog.Any("underlying_error", e.Err))
	}

	return slog.GroupValue(attrs...)
}

// WithService 添加服务和操作信息
func (e *AppError) WithService(service, operation string) *AppError {
	if e.Context == nil {
		e.Context = &ErrorContext{}
	}
	e.Context.Service = service
	e.Context.Operation = operation
	return e
}

// WithTraceID 添加 TraceID
func (e *AppError) WithTraceID(traceID string) *AppError {
	if traceID == "" {
		return e
	}
	if e.Context == nil {
		e.Context = &ErrorContext{}
	}
	e.Context.TraceID = traceID
	return e
}

// WithMetadata 添加自定义元数据
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = &ErrorContext{}
	}
	if e.Context.Metadata == nil {
		e.Context.Metadata = make(map[string]interface{})
	}
	e.Context.Metadata[key] = value
	return e
}

// IsRetryable 判断是否为可重试错误
func (e *AppError) IsRetryable() bool {
	return e.Retryable
}

// IsCritical 判断是否为严重错误
func (e *AppError) IsCritical() bool {
	return e.Level == LevelCritical
}

// New 创建新的AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Level:     getLevelByCode(code),
		Category:  getCategoryByCode(code),
		Timestamp: time.Now(),
		Retryable: isRetryableByCode(code),
	}
}

// NewWithError 创建包含原始错误的 AppError
func NewWithError(code ErrorCode, message string, err error) *AppError {
	appErr := New(code, message)
	appErr.Err = err

	if pc, file, line, ok := runtime.Caller(1); ok {
		appErr.File = file
		appErr.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			appErr.Stack = fn.Name()
		}
	}

	return appErr
}

// FromCode 根据错误码创建 AppError
func FromCode(code ErrorCode) *AppError {
	return New(code, code.Message())
}

// Wrap 把 err 包装为新的 AppError。链中已有 AppError 时沿用它的错误码，
// 但从不返回或修改原对象：调用方返回的可能是包级共享的哨兵错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	var inner *AppError
	if errors.As(err, &inner) {
		code = inner.Code
	}

	appErr := New(code, message)
	appErr.Err = err
	if _, file, line, ok := runtime.Caller(1); ok {
		appErr.File = file
		appErr.Line = line
	}
	return appErr
}

// NewExternalServiceError 外部服务调用失败
func NewExternalServiceError(service string, err error) *AppError {
	appErr := FromCode(CodeExternalServiceError).
		WithMetadata("external_service", service)
	appErr.Err = err
	return appErr
}

// NewDatabaseError 数据库操作失败
func NewDatabaseError(operation, table string, err error) *AppError {
	appErr := FromCode(CodeDatabaseError).
		WithMetadata("db_operation", operation).
		WithMetadata("table", table)
	appErr.Err = err
	return appErr
}

// NewCacheError 缓存（Redis）操作失败
func NewCacheError(operation, key string, err error) *AppError {
	appErr := FromCode(CodeCacheError).
		WithMetadata("cache_operation", operation).
		WithMetadata("key", key)
	appErr.Err = err
	return appErr
}

// CodeOf 返回错误链中第一个 AppError 的错误码，没有则为 CodeInternalError
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}
