package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const correlationIDContextKey contextKey = "correlationID"

// Component names attached to log lines as the "component" field
const (
	ComponentAPI     = "api"
	ComponentFetcher = "fetcher"
	ComponentCache   = "cache"
	ComponentService = "tax_service"
)

// WithCorrelationID stores a request correlation ID in ctx
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDContextKey, correlationID)
}

// CorrelationIDFromContext returns the correlation ID stored in ctx, or ""
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationIDContextKey).(string); ok {
		return id
	}
	return ""
}

// FromContext decorates base with the correlation ID carried by ctx.
// A nil base falls back to Log.
func FromContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		base = Log
	}
	if id := CorrelationIDFromContext(ctx); id != "" {
		return base.With(zap.String("correlation_id", id))
	}
	return base
}

// ForComponent returns a child of base tagged with a component name
func ForComponent(base *zap.Logger, component string) *zap.Logger {
	if base == nil {
		base = Log
	}
	return base.With(zap.String("component", component))
}
