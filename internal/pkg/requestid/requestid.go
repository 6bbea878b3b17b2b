// Package requestid carries a per-operation request id through contexts and
// the X-Request-Id header so client logs, the operation journal and the
// server side can all be correlated.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// ctxKey is an unexported type for context keys in this package.
// Using a custom type prevents collisions with keys from other packages
// that might use the same underlying string value.
type ctxKey string

// Header is the wire header the id travels in.
const Header = "X-Request-Id"

const contextKey ctxKey = "request_id"

// New returns a fresh request id.
func New() string {
	return uuid.NewString()
}

// With stores a request id in the context.
func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey, id)
}

// From extracts the request id from the context, or "" when none is set.
func From(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey).(string); ok {
		return id
	}
	return ""
}

// Ensure returns the context's request id, minting one and attaching it when
// the context carries none.
func Ensure(ctx context.Context) (context.Context, string) {
	if id := From(ctx); id != "" {
		return ctx, id
	}
	id := New()
	return With(ctx, id), id
}
