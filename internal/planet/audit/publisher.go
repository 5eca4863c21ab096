package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher stamps events and appends them to a Store.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

// LogPublisher writes events as structured log lines and nothing else.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(ctx context.Context, event Event) error {
	if p.logger == nil {
		return nil
	}
	p.logger.InfoContext(ctx, string(event.Type),
		"log_type", "audit",
		"event", string(event.Type),
		"planet_id", event.PlanetID,
		"name", event.Name,
		"request_id", event.RequestID,
	)
	return nil
}

// Emitter is the publishing side shared by every sink.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Fanout delivers each event to every emitter and joins their errors.
type Fanout []Emitter

func (f Fanout) Emit(ctx context.Context, event Event) error {
	var errs []error
	for _, e := range f {
		if e == nil {
			continue
		}
		if err := e.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
