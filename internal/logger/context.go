package logger

import (
	"context"

	"go.uber.org/zap"
)

// loggerKey keys the request-scoped logger in a context.
type loggerKey struct{}

// ContextWithLogger returns a context carrying the logger. The HTTP
// middleware attaches a request-scoped logger this way so the engine
// logs degradations with the request id.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger carried by ctx, or zap.NewNop() when
// none was attached.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
