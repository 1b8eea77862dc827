// File: internal/pkg/contextkeys/context.go
package contextkeys

import "context"

// contextKey 私有类型，避免包间冲突
type contextKey string

const (
	TraceIDKey contextKey = "trace_id"
)

// WithTraceID 向 context 中添加 trace ID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID 从 context 中获取 trace ID
func GetTraceID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	traceID, ok := ctx.Value(TraceIDKey).(string)
	return traceID, ok && traceID != ""
}
