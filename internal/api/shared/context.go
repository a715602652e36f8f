package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// ContextKey namespaces request-scoped values owned by the API layer.
type ContextKey string

// TraceIDKey holds the per-request trace ID echoed in error bodies.
const TraceIDKey ContextKey = "traceID"

// TraceIDLength is the number of hex characters in a trace ID.
const TraceIDLength = 32

// SetTraceID returns a child context carrying a new random trace ID.
func SetTraceID(ctx context.Context) context.Context {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return context.WithValue(ctx, TraceIDKey, id)
}

// GetTraceID returns the request's trace ID, or "" outside a traced request.
func GetTraceID(ctx context.Context) string {
	id, _ := ctx.Value(TraceIDKey).(string)
	return id
}
