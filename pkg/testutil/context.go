package testutil

import (
	"net/http"
	"time"

	"sojourn/pkg/requestcontext"
)

// AtTime pins the request clock, as the requesttime middleware would.
func AtTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
