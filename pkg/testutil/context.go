package testutil

import (
	"net/http"
	"time"

	"planets/pkg/requestcontext"
)

// WithRequestID attaches a request id the way the request-id middleware does.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithRequestTime pins the request-scoped clock so timestamps are predictable.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
