// Package health reports whether the backing services can be reached.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"planets/pkg/platform/httputil"
)

// Pinger is implemented by stores and clients that can check connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Response is the body of GET /health.
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Checker runs every registered check with a shared timeout.
type Checker struct {
	checks  map[string]Pinger
	timeout time.Duration
	logger  *slog.Logger
}

func NewChecker(logger *slog.Logger, timeout time.Duration) *Checker {
	return &Checker{checks: map[string]Pinger{}, timeout: timeout, logger: logger}
}

// Add registers a named dependency. Nil pingers are ignored.
func (c *Checker) Add(name string, p Pinger) {
	if p != nil {
		c.checks[name] = p
	}
}

// Check returns the per-dependency result and whether all passed.
func (c *Checker) Check(ctx context.Context) (Response, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp := Response{Status: "ok", Checks: make(map[string]string, len(c.checks))}
	healthy := true
	for name, p := range c.checks {
		if err := p.Ping(ctx); err != nil {
			c.logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
			resp.Checks[name] = "unavailable"
			healthy = false
			continue
		}
		resp.Checks[name] = "ok"
	}
	if !healthy {
		resp.Status = "degraded"
	}
	return resp, healthy
}

// ServeHTTP answers 200 when every dependency responds and 503 otherwise.
func (c *Checker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, ok := c.Check(r.Context())
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, resp)
}
