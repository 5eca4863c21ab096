package audit

import (
	"context"
	"fmt"
	"log/slog"

	"planets/pkg/platform/circuit"
	"planets/pkg/platform/sentinel"
)

// Guarded skips a failing sink while its breaker is open so a broker outage
// does not add a produce timeout to every mutation.
type Guarded struct {
	next    Emitter
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewGuarded(next Emitter, breaker *circuit.Breaker, logger *slog.Logger) *Guarded {
	return &Guarded{next: next, breaker: breaker, logger: logger}
}

func (g *Guarded) Emit(ctx context.Context, event Event) error {
	if !g.breaker.Allow() {
		return fmt.Errorf("audit sink %s: %w", g.breaker.Name(), sentinel.ErrUnavailable)
	}
	if err := g.next.Emit(ctx, event); err != nil {
		if _, change := g.breaker.RecordFailure(); change.Opened {
			g.logger.WarnContext(ctx, "audit sink circuit opened", "sink", g.breaker.Name(), "error", err)
		}
		return err
	}
	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "audit sink circuit closed", "sink", g.breaker.Name())
	}
	return nil
}
