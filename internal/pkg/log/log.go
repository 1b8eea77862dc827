// File: internal/pkg/log/log.go
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"tsu-signin/internal/pkg/contextkeys"
	"tsu-signin/internal/pkg/xerrors"
)

// Logger 接口定义（在消费端定义）
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, err error, args ...any)

	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)

	With(args ...any) Logger
	WithGroup(name string) Logger
}

// StructuredLogger slog的包装器
type StructuredLogger struct {
	logger *slog.Logger
}

var (
	globalMu     sync.RWMutex
	globalLogger Logger
)

// Init 初始化日志器
func Init(level slog.Level, environment string) {
	var handler slog.Handler

	if environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     level,
			AddSource: true, // 开发环境显示源码位置
		})
	}

	logger := slog.New(NewContextHandler(handler))

	globalMu.Lock()
	globalLogger = &StructuredLogger{logger: logger}
	globalMu.Unlock()

	slog.SetDefault(logger)
}

// ParseLevel 将配置中的字符串转换为 slog.Level，无法识别时返回 Info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetLogger 获取全局logger
func GetLogger() Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	Init(slog.LevelInfo, "development")
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// NewLogger 创建新的logger实例，handler 会被包装为 ContextHandler
func NewLogger(handler slog.Handler) Logger {
	return &StructuredLogger{
		logger: slog.New(NewContextHandler(handler)),
	}
}

// Discard 丢弃所有输出的 logger，测试中使用
func Discard() Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

func (l *StructuredLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *StructuredLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *StructuredLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *StructuredLogger) Error(msg string, err error, args ...any) {
	args = append(args, slog.Any("error", err))
	l.logger.Error(msg, args...)
}

func (l *StructuredLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *StructuredLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

func (l *StructuredLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *StructuredLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

func (l *StructuredLogger) With(args ...any) Logger {
	return &StructuredLogger{
		logger: l.logger.With(args...),
	}
}

func (l *StructuredLogger) WithGroup(name string) Logger {
	return &StructuredLogger{
		logger: l.logger.WithGroup(name),
	}
}

// ContextHandler 上下文感知的handler
type ContextHandler struct {
	next slog.Handler
}

// NewContextHandler 创建上下文handler
func NewContextHandler(next slog.Handler) *ContextHandler {
	if ch, ok := next.(*ContextHandler); ok {
		return ch
	}
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	// 从context中提取 trace_id
	if traceID, ok := contextkeys.GetTraceID(ctx); ok {
		r.AddAttrs(slog.String("trace_id", traceID))
	}
	return h.next.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}

// Error 使用全局 logger 记录错误
func Error(msg string, err error, args ...any) {
	GetLogger().Error(msg, err, args...)
}

// LogAppError 按 AppError 的级别记录日志
func LogAppError(ctx context.Context, logger Logger, msg string, appErr *xerrors.AppError) {
	if logger == nil {
		logger = GetLogger()
	}

	switch appErr.Level {
	case xerrors.LevelCritical, xerrors.LevelError:
		logger.ErrorContext(ctx, msg, slog.Any("app_error", appErr))
	case xerrors.LevelWarn:
		logger.WarnContext(ctx, msg, slog.Any("app_error", appErr))
	default:
		logger.InfoContext(ctx, msg, slog.Any("app_error", appErr))
	}
}

// LogHTTPRequest 记录HTTP请求日志，级别由状态码决定
func LogHTTPRequest(ctx context.Context, logger Logger, method, path string, statusCode int, duration int64, clientIP string) {
	if logger == nil {
		logger = GetLogger()
	}

	args := []any{
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status_code", statusCode),
		Duration("duration", duration),
		slog.String("client_ip", clientIP),
	}

	if statusCode >= 500 {
		logger.ErrorContext(ctx, "HTTP request completed with server error", args...)
	} else if statusCode >= 400 {
		logger.WarnContext(ctx, "HTTP request completed with client error", args...)
	} else {
		logger.InfoContext(ctx, "HTTP request completed", args...)
	}
}

// String 字符串属性
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Int 整数属性
func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

// Bool 布尔属性
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Any 任意类型属性
func Any(key string, value interface{}) slog.Attr {
	return slog.Any(key, value)
}

// Duration 时间间隔属性（以毫秒为单位）
func Duration(key string, duration int64) slog.Attr {
	return slog.Int64(key+"_ms", duration)
}
