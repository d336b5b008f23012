// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets the values; services read them without importing net/http:
//
//	requestID := requestcontext.RequestID(ctx)
//	today := requestcontext.Now(ctx)
//
// Tests and the `as_of` query parameter pin the reference date:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "sojourn/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	travelerIDKey  struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyTravelerID  = travelerIDKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// TravelerID retrieves the traveler the request acts on.
// Returns the zero value (nil UUID) if not set.
func TravelerID(ctx context.Context) id.TravelerID {
	if travelerID, ok := ctx.Value(ContextKeyTravelerID).(id.TravelerID); ok {
		return travelerID
	}
	return id.TravelerID{}
}

// WithTravelerID injects a traveler ID into the context.
func WithTravelerID(ctx context.Context, travelerID id.TravelerID) context.Context {
	return context.WithValue(ctx, ContextKeyTravelerID, travelerID)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, CLI, tests without a pinned clock).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
// Useful for:
//   - Service unit tests that need a deterministic reference date
//   - Simulating a future or past "today" from the HTTP layer
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
