package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"planets/internal/platform/metrics"
	"planets/internal/platform/middleware"
	dErrors "planets/pkg/domain-errors"
	"planets/pkg/platform/httputil"
)

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// Deps are the pieces the router needs. Health and Metrics are optional.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Health         http.Handler
	RequestTimeout time.Duration
	Modules        []Registrar
}

// NewRouter wires the middleware chain, the operational endpoints and every
// module's routes. Handlers stay thin and delegate to services.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RequestTime,
		middleware.Recovery(d.Logger),
		middleware.Logger(d.Logger),
	)
	if d.Metrics != nil {
		r.Use(middleware.Latency(d.Metrics))
	}

	if d.Health != nil {
		r.Method(http.MethodGet, "/health", d.Health)
	}
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if d.RequestTimeout > 0 {
			r.Use(middleware.Timeout(d.RequestTimeout))
		}
		r.Use(middleware.ContentTypeJSON)
		for _, m := range d.Modules {
			m.Register(r)
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
	})
	return r
}
