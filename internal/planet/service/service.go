package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"planets/internal/planet/audit"
	planetmetrics "planets/internal/planet/metrics"
	"planets/internal/planet/models"
	"planets/internal/planet/predicate"
	id "planets/pkg/domain"
	dErrors "planets/pkg/domain-errors"
	"planets/pkg/platform/sentinel"
	"planets/pkg/requestcontext"
)

const tracerName = "planets/internal/planet/service"

// Store is the record store both services run against.
//
// Implementations return sentinel.ErrNotFound for unknown keys and
// sentinel.ErrUnavailable (wrapped) when the backend cannot be reached.
// Execute runs validate and mutate under the store's lock or transaction so
// that the lookup and the write are atomic; when validate fails nothing is
// written and its error is returned unchanged.
type Store interface {
	FindByID(ctx context.Context, planetID id.PlanetID) (*models.Planet, error)
	FindOneByNameSubstring(ctx context.Context, name string) (*models.Planet, error)
	Insert(ctx context.Context, planet *models.Planet) (*models.Planet, error)
	Execute(ctx context.Context, planetID id.PlanetID, validate func(*models.Planet) error, mutate func(*models.Planet)) (*models.Planet, error)
	Delete(ctx context.Context, planetID id.PlanetID) error
	Scan(ctx context.Context, pred predicate.Predicate, page models.PageRequest) ([]*models.Planet, int64, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Option func(*serviceConfig)

type serviceConfig struct {
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *planetmetrics.Metrics
	tracer         trace.Tracer
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(c *serviceConfig) {
		c.auditPublisher = publisher
	}
}

func WithMetrics(m *planetmetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

// WithTracer overrides the global otel tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *serviceConfig) {
		c.tracer = t
	}
}

func newConfig(store Store, opts []Option) (*serviceConfig, error) {
	if store == nil {
		return nil, errors.New("planet store is required")
	}
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer(tracerName)
	}
	if cfg.auditPublisher == nil {
		cfg.auditPublisher = audit.NewLogPublisher(cfg.logger)
	}
	return cfg, nil
}

// observe starts a span for op and returns a finisher that records the
// outcome on the span and in metrics.
func (c *serviceConfig) observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "planet."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		}
		span.End()
		c.metrics.ObserveOperation(op, start, err)
	}
}

// emit publishes an audit event. A failed emission is logged and never fails
// the mutation that has already been committed.
func (c *serviceConfig) emit(ctx context.Context, eventType audit.EventType, planet *models.Planet) {
	requestID := requestcontext.RequestID(ctx)
	err := c.auditPublisher.Emit(ctx, audit.Event{
		Type:      eventType,
		PlanetID:  planet.ID.String(),
		Name:      planet.Name,
		RequestID: requestID,
		Timestamp: requestcontext.Now(ctx),
	})
	if err != nil {
		c.logger.WarnContext(ctx, "failed to publish audit event",
			"event", string(eventType),
			"planet_id", planet.ID.String(),
			"request_id", requestID,
			"error", err,
		)
	}
}

func notFound(key, value string) error {
	return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("planet not found with %s %s", key, value))
}

// wrapStoreErr translates store failures. Domain errors pass through
// unchanged; the original cause stays in the chain.
func wrapStoreErr(err error, msg string) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "planet store unavailable")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "planet was modified concurrently")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "planet store timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}

// wrapLookupErr is wrapStoreErr with ErrNotFound mapped to a keyed NotFound.
func wrapLookupErr(err error, key, value, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return notFound(key, value)
	}
	return wrapStoreErr(err, msg)
}
