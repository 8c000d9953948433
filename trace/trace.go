// Package trace propagates request identifiers. A logical request keeps one
// ID across every retry attempt so server logs and client logs line up, and
// callers can thread their own ID through the context.
package trace

import (
	"context"
	nethttp "net/http"

	"github.com/google/uuid"
)

// contextKey is the type for context keys to avoid collisions
type contextKey string

const (
	// requestIDKey is the context key for request ID values
	requestIDKey contextKey = "request_id"

	// HeaderXRequestID is the standard header name for request tracing
	HeaderXRequestID = "X-Request-ID"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID from the context, if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return id, true
	}
	return "", false
}

// EnsureRequestID returns the context's request ID or generates a new one.
func EnsureRequestID(ctx context.Context) string {
	if id, ok := RequestIDFromContext(ctx); ok {
		return id
	}
	return uuid.New().String()
}

// Stamp fills the request ID header, preserving a value the caller already
// set. name selects the header, defaulting to HeaderXRequestID. It returns
// the ID that ends up on the wire.
func Stamp(ctx context.Context, header nethttp.Header, name string) string {
	if name == "" {
		name = HeaderXRequestID
	}
	if existing := header.Get(name); existing != "" {
		return existing
	}
	id := EnsureRequestID(ctx)
	header.Set(name, id)
	return id
}
