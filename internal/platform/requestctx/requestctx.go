// Package requestctx carries the per-request correlation ID through
// context so stores and handlers can tag logs and audit rows.
package requestctx

import "context"

type key struct{}

// WithRequestID returns a child context tagged with the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, key{}, id)
}

// GetRequestID returns the request ID or "" when the context has none.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(key{}).(string)
	return id
}
