package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type traceIDKey struct{}
type spanIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	return stringValue(ctx, traceIDKey{})
}

func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey{}, spanID)
}

func SpanIDFrom(ctx context.Context) (string, bool) {
	return stringValue(ctx, spanIDKey{})
}

// Ensure 保证 ctx 上有 trace_id：已有则沿用，没有则新生成。
func Ensure(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := TraceIDFrom(ctx); ok {
		return ctx
	}
	if tid := NewTraceID(); tid != "" {
		ctx = WithTraceID(ctx, tid)
	}
	return ctx
}

// NewTraceID 16 字节随机 trace_id（hex）。
func NewTraceID() string {
	return randomHex(16)
}

// NewSpanID 8 字节随机 span_id（hex）。
func NewSpanID() string {
	return randomHex(8)
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}

func stringValue(ctx context.Context, key any) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, ok := ctx.Value(key).(string)
	return s, ok && s != ""
}
