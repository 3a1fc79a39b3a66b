package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is the type of the request context keys owned by the API layer.
type ContextKey string

const (
	// PrincipalContextKey holds the login of the authenticated caller.
	PrincipalContextKey ContextKey = "principal"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"
)

// SetTraceID adds a freshly generated trace ID to the context.
// The ID correlates log lines and error responses of one request.
func SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, NewTraceID())
}

// WithTraceID returns a copy of ctx carrying the given trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// NewTraceID returns a 32-character hex trace ID.
func NewTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// WithPrincipal returns a copy of ctx carrying the authenticated caller's login.
func WithPrincipal(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, login)
}

// GetPrincipal returns the authenticated caller's login and whether one is present.
func GetPrincipal(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(PrincipalContextKey).(string)
	return login, ok && login != ""
}
